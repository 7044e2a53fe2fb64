package port

import "time"

// ArchiveMetrics records archive outcomes
type ArchiveMetrics interface {
	ObserveArchive(result string, duration time.Duration)
	AddEvictions(n int)
}
