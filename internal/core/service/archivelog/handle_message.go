package archivelog

import (
	"context"
	"errors"
	"fmt"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// HandleMessage records one BackupArchivedEvent: the client's last backup time
// and the audit row are written in the same transaction.
func (a *archiveLogService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.BackupArchivedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal archived event: %w", err)
	}
	if event.ID == uuid.Nil {
		return fmt.Errorf("archived event without id")
	}

	a.logger.Info("handling event", "event_id", event.ID, "client_id", event.ClientID, "location", event.Location)

	record := event.ToRecord()

	return a.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if record.ClientID != uuid.Nil {
			err := uow.ClientRepo().UpdateLastBackup(ctx, record.ClientID, record.ArchivedAt)
			switch {
			case errors.Is(err, domain.ErrClientNotFound):
				a.logger.Warn("archived event for unknown client", "event_id", event.ID, "client_id", record.ClientID)
				record.ClientID = uuid.Nil
			case err != nil:
				return err
			}
		}
		return uow.ArchiveLogRepo().Create(ctx, record)
	})
}
