package port

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/google/uuid"
)

// ArchiveLogRepository stores the audit trail of archived backups
type ArchiveLogRepository interface {
	Create(ctx context.Context, record domain.ArchiveRecord) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.ArchiveRecord, error)
}
