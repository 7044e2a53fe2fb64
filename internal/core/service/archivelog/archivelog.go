package archivelog

import (
	"log/slog"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
)

type archiveLogService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewArchiveLogService creates the handler recording archived backup events
func NewArchiveLogService(uow port.UnitOfWork, logger *slog.Logger) port.MessageService {
	return &archiveLogService{
		uow:    uow,
		logger: logger,
	}
}
