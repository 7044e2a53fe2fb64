package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// Authenticate resolves the active client owning token.
// Unknown, blank and inactive tokens return domain.ErrUnauthorized.
func (c *clientService) Authenticate(ctx context.Context, token string) (*domain.Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthorized
	}

	client, err := c.cache.Get(ctx, token)
	if err != nil {
		c.logger.Warn("token cache unavailable", "error", err)
	}

	if client != nil && !client.Active {
		if err := c.cache.Delete(ctx, token); err != nil {
			c.logger.Warn("failed to evict inactive client from cache", "client_id", client.ID, "error", err)
		}
		return nil, fmt.Errorf("%w: client %s is inactive", domain.ErrUnauthorized, client.ID)
	}

	if client == nil {
		client, err = c.repo.FindByToken(ctx, token)
		if err != nil {
			if errors.Is(err, domain.ErrClientNotFound) {
				return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
			}
			return nil, fmt.Errorf("failed to look up token: %w", err)
		}

		if !client.Active {
			return nil, fmt.Errorf("%w: client %s is inactive", domain.ErrUnauthorized, client.ID)
		}

		// Only active clients are cached; a deactivation reaches the API within REDIS_TOKEN_TTL.
		if err := c.cache.Set(ctx, *client); err != nil {
			c.logger.Warn("failed to cache token", "client_id", client.ID, "error", err)
		}
	}

	return client, nil
}
