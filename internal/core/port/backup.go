package port

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// BackupService archives uploaded backups on the remote store
type BackupService interface {
	Archive(ctx context.Context, req domain.UploadRequest) (*domain.ArchiveResult, error)
}
