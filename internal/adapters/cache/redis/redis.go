package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "api-envio-ftp:client:"

// ClientCache caches token lookups in redis. Keys hold a hash of the token.
type ClientCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewClientCache connects to redis and checks it answers
func NewClientCache(ctx context.Context, cfg config.RedisConfig) (*ClientCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &ClientCache{client: client, ttl: cfg.TokenTTL}, nil
}

// Close closes the redis connection pool
func (c *ClientCache) Close() error {
	return c.client.Close()
}

// Get returns the cached client, or nil on a miss
func (c *ClientCache) Get(ctx context.Context, token string) (*domain.Client, error) {
	payload, err := c.client.Get(ctx, key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached client: %w", err)
	}

	var entry cachedClient
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("decode cached client: %w", err)
	}
	return entry.toDomain(token), nil
}

// Set caches client under its token for the configured TTL
func (c *ClientCache) Set(ctx context.Context, client domain.Client) error {
	payload, err := json.Marshal(cachedClient{
		ID:           client.ID,
		Name:         client.Name,
		Active:       client.Active,
		LastBackupAt: client.LastBackupAt,
		CreatedAt:    client.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode client: %w", err)
	}
	if err := c.client.Set(ctx, key(client.Token), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache client: %w", err)
	}
	return nil
}

// Delete evicts a token
func (c *ClientCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("delete cached client: %w", err)
	}
	return nil
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

type cachedClient struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Active       bool       `json:"active"`
	LastBackupAt *time.Time `json:"last_backup_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (c cachedClient) toDomain(token string) *domain.Client {
	return &domain.Client{
		ID:           c.ID,
		Name:         c.Name,
		Token:        token,
		Active:       c.Active,
		LastBackupAt: c.LastBackupAt,
		CreatedAt:    c.CreatedAt,
	}
}
