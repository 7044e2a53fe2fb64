package storage

import (
	"fmt"
	"log/slog"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/storage/breaker"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/storage/ftp"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/storage/minio"
	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/storage/sftp"
	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
)

// NewRemoteStore builds the remote store selected by REMOTE_PROTOCOL,
// guarded by the circuit breaker when enabled
func NewRemoteStore(cfg *config.Config, logger *slog.Logger) (port.RemoteStore, error) {
	var store port.RemoteStore
	switch cfg.Remote.Protocol {
	case "ftp":
		store = ftp.NewStore(logger)
	case "sftp":
		callback, err := sftp.HostKeyCallback(cfg.Remote.KnownHostsFile, logger)
		if err != nil {
			return nil, err
		}
		store = sftp.NewStore(callback, logger)
	case "minio":
		store = minio.NewStore(cfg.Minio, cfg.Upload.ExpectedMimeType, logger)
	default:
		return nil, fmt.Errorf("unsupported remote protocol %q", cfg.Remote.Protocol)
	}

	if cfg.Breaker.Enabled {
		store = breaker.NewStore(store, cfg.Breaker, logger)
	}
	return store, nil
}
