package client

import (
	"log/slog"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
)

type clientService struct {
	repo   port.ClientRepository
	cache  port.ClientCache
	logger *slog.Logger
}

// NewClientService creates a new client service
func NewClientService(repo port.ClientRepository, cache port.ClientCache, logger *slog.Logger) port.ClientService {
	return &clientService{repo: repo, cache: cache, logger: logger}
}
