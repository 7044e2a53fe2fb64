package port

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// EventPublisher publishes backup events to a broker
type EventPublisher interface {
	PublishArchived(ctx context.Context, event domain.BackupArchivedEvent) error
	Close() error
}

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}
