package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlClientRepository struct {
	db SQLQuerier
}

// NewSqlClientRepository creates sqlClientRepository that implements port.ClientRepository
func NewSqlClientRepository(db SQLQuerier) port.ClientRepository {
	return &sqlClientRepository{db: db}
}

// Create registers a client and its token
func (s *sqlClientRepository) Create(ctx context.Context, client domain.Client) error {
	query := `INSERT INTO clients (id, name, token, active) VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query, client.ID, client.Name, client.Token, client.Active)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("client %s : %w", client.Name, domain.ErrAlreadyExists)
			}
		}
		return err
	}
	return nil
}

// FindByToken finds a client by token
func (s *sqlClientRepository) FindByToken(ctx context.Context, token string) (*domain.Client, error) {
	query := `SELECT id, name, token, active, last_backup_at, created_at FROM clients WHERE token = $1`

	var row dbClient
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&row.ID,
		&row.Name,
		&row.Token,
		&row.Active,
		&row.LastBackupAt,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

// UpdateLastBackup records the time of the latest archived backup
func (s *sqlClientRepository) UpdateLastBackup(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE clients SET last_backup_at = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

type dbClient struct {
	ID           uuid.UUID    `db:"id"`
	Name         string       `db:"name"`
	Token        string       `db:"token"`
	Active       bool         `db:"active"`
	LastBackupAt sql.NullTime `db:"last_backup_at"`
	CreatedAt    time.Time    `db:"created_at"`
}

// ToDomain converts to domain.Client
func (c *dbClient) ToDomain() *domain.Client {
	client := &domain.Client{
		ID:        c.ID,
		Name:      c.Name,
		Token:     c.Token,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
	if c.LastBackupAt.Valid {
		lastBackupAt := c.LastBackupAt.Time
		client.LastBackupAt = &lastBackupAt
	}
	return client
}
