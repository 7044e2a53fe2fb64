package backup

import (
	"log/slog"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	backupService port.BackupService
	formField     string
	maxSize       int64
	logger        *slog.Logger
}

// NewBackupHandlerV1 creates HandlerV1
func NewBackupHandlerV1(service port.BackupService, formField string, maxSize int64, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		backupService: service,
		formField:     formField,
		maxSize:       maxSize,
		logger:        logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.UploadV1)

	return router
}
