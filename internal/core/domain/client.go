package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a system activation allowed to send backups
type Client struct {
	ID           uuid.UUID
	Name         string
	Token        string
	Active       bool
	LastBackupAt *time.Time
	CreatedAt    time.Time
}

// ArchiveRecord is an audit entry for one stored backup
type ArchiveRecord struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Directory  string
	FileName   string
	Location   string
	SizeBytes  int64
	Evicted    []string
	ArchivedAt time.Time
}
