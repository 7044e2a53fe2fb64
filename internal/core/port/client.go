package port

import (
	"context"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/google/uuid"
)

// ClientRepository is an interface to define credential store interactions
type ClientRepository interface {
	Create(ctx context.Context, client domain.Client) error
	FindByToken(ctx context.Context, token string) (*domain.Client, error)
	UpdateLastBackup(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ClientCache caches token lookups in front of the ClientRepository
type ClientCache interface {
	Get(ctx context.Context, token string) (*domain.Client, error)
	Set(ctx context.Context, client domain.Client) error
	Delete(ctx context.Context, token string) error
}

// ClientService resolves the caller identity from a token
type ClientService interface {
	Authenticate(ctx context.Context, token string) (*domain.Client, error)
}
