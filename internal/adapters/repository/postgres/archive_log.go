package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const maxArchiveLogPage = 100

type sqlArchiveLogRepository struct {
	db SQLQuerier
}

// NewSqlArchiveLogRepository creates sqlArchiveLogRepository that implements port.ArchiveLogRepository
func NewSqlArchiveLogRepository(db SQLQuerier) port.ArchiveLogRepository {
	return &sqlArchiveLogRepository{db: db}
}

// Create inserts an audit entry; replaying the same event id is a no-op
func (s *sqlArchiveLogRepository) Create(ctx context.Context, record domain.ArchiveRecord) error {
	query := `
		INSERT INTO archive_log (
			id, client_id, directory, file_name, location, size_bytes, evicted, archived_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	evicted := record.Evicted
	if evicted == nil {
		evicted = []string{}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		nullableUUID(record.ClientID),
		record.Directory,
		record.FileName,
		record.Location,
		record.SizeBytes,
		pq.Array(evicted),
		record.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting archive log: %w", err)
	}
	return nil
}

// ListByClient returns the latest entries of a client, newest first
func (s *sqlArchiveLogRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.ArchiveRecord, error) {
	if limit <= 0 || limit > maxArchiveLogPage {
		limit = maxArchiveLogPage
	}

	query := `
		SELECT id, client_id, directory, file_name, location, size_bytes, evicted, archived_at
		FROM archive_log
		WHERE client_id = $1
		ORDER BY archived_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying archive log: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ArchiveRecord, 0, limit)
	for rows.Next() {
		var row dbArchiveRecord
		if err := rows.Scan(
			&row.ID,
			&row.ClientID,
			&row.Directory,
			&row.FileName,
			&row.Location,
			&row.SizeBytes,
			pq.Array(&row.Evicted),
			&row.ArchivedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning archive log: %w", err)
		}
		records = append(records, row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archive log: %w", err)
	}

	return records, nil
}

func nullableUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

type dbArchiveRecord struct {
	ID         uuid.UUID     `db:"id"`
	ClientID   uuid.NullUUID `db:"client_id"`
	Directory  string        `db:"directory"`
	FileName   string        `db:"file_name"`
	Location   string        `db:"location"`
	SizeBytes  int64         `db:"size_bytes"`
	Evicted    []string      `db:"evicted"`
	ArchivedAt time.Time     `db:"archived_at"`
}

// ToDomain converts to domain.ArchiveRecord
func (r *dbArchiveRecord) ToDomain() domain.ArchiveRecord {
	return domain.ArchiveRecord{
		ID:         r.ID,
		ClientID:   r.ClientID.UUID,
		Directory:  r.Directory,
		FileName:   r.FileName,
		Location:   r.Location,
		SizeBytes:  r.SizeBytes,
		Evicted:    r.Evicted,
		ArchivedAt: r.ArchivedAt,
	}
}
