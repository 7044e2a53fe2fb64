package cache

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// NoopClientCache always misses; it is used when no redis is configured
type NoopClientCache struct{}

func (NoopClientCache) Get(context.Context, string) (*domain.Client, error) { return nil, nil }
func (NoopClientCache) Set(context.Context, domain.Client) error            { return nil }
func (NoopClientCache) Delete(context.Context, string) error                { return nil }
