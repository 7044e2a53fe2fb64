package domain

import (
	"time"

	"github.com/google/uuid"
)

// BackupArchivedEvent is published after a backup reaches the remote store
type BackupArchivedEvent struct {
	ID         uuid.UUID `json:"id"`
	ClientID   uuid.UUID `json:"client_id"`
	Directory  string    `json:"directory"`
	FileName   string    `json:"file_name"`
	Location   string    `json:"location"`
	SizeBytes  int64     `json:"size_bytes"`
	Evicted    []string  `json:"evicted"`
	ArchivedAt time.Time `json:"archived_at"`
}

// ToRecord converts the event to an audit record
func (e BackupArchivedEvent) ToRecord() ArchiveRecord {
	return ArchiveRecord{
		ID:         e.ID,
		ClientID:   e.ClientID,
		Directory:  e.Directory,
		FileName:   e.FileName,
		Location:   e.Location,
		SizeBytes:  e.SizeBytes,
		Evicted:    e.Evicted,
		ArchivedAt: e.ArchivedAt,
	}
}
