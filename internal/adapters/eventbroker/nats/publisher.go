package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher publishes backup events on JetStream
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(ctx, cfg, "api-envio-ftp", logger)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js, subject: cfg.Subject, logger: logger}, nil
}

// PublishArchived publishes event; the event id deduplicates retries
func (p *Publisher) PublishArchived(ctx context.Context, event domain.BackupArchivedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(event.ID.String()))
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published", "subject", p.subject, "stream", ack.Stream, "seq", ack.Sequence)
	return nil
}

// Close drains pending publishes and closes the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
