package eventbroker

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// NoopPublisher drops every event; it is used when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) PublishArchived(context.Context, domain.BackupArchivedEvent) error { return nil }
func (NoopPublisher) Close() error                                                    { return nil }
