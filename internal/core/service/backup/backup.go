package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/google/uuid"
)

const (
	resultArchived = "archived"
	resultRejected = "rejected"
	resultFailed   = "failed"

	// publishTimeout bounds the event publish once the backup is stored
	publishTimeout = 5 * time.Second
)

type backupService struct {
	validator *Validator
	session   *TransferSession
	publisher port.EventPublisher
	metrics   port.ArchiveMetrics
	locks     *directoryLocks
	remoteCfg config.RemoteConfig
	logger    *slog.Logger
}

// NewBackupService creates the service archiving uploads on the remote store.
// The configuration is read once and never mutated afterwards.
func NewBackupService(store port.RemoteStore, publisher port.EventPublisher, metrics port.ArchiveMetrics, remoteCfg config.RemoteConfig, uploadCfg config.UploadConfig, logger *slog.Logger) port.BackupService {
	var locks *directoryLocks
	if remoteCfg.SerializePerClient {
		locks = newDirectoryLocks()
	}
	return &backupService{
		validator: NewValidator(uploadCfg.AcceptedExtension, uploadCfg.ExpectedMimeType),
		session:   NewTransferSession(store, logger),
		publisher: publisher,
		metrics:   metrics,
		locks:     locks,
		remoteCfg: remoteCfg,
		logger:    logger,
	}
}

// Archive validates the upload and stores it in the client directory
func (b *backupService) Archive(ctx context.Context, req domain.UploadRequest) (*domain.ArchiveResult, error) {
	start := time.Now()

	validation := b.validator.Validate(req.Content, req.OriginalName)
	if !validation.Accepted {
		b.metrics.ObserveArchive(resultRejected, time.Since(start))
		b.logger.Warn("backup rejected", "filename", req.OriginalName, "detected", validation.DetectedKind, "reason", validation.Reason)
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, validation.Reason)
	}

	directory := ResolveDirectory(b.remoteCfg.BaseFolder, req.ClientToken)

	if b.locks != nil {
		unlock, err := b.locks.Lock(ctx, directory)
		if err != nil {
			b.metrics.ObserveArchive(resultFailed, time.Since(start))
			b.logger.Error("gave up waiting for client directory", "directory", directory, "error", err)
			return nil, domain.ErrTransfer
		}
		defer unlock()
	}

	result, err := b.session.ArchiveWithSession(ctx, req.Content, SessionParams{
		Directory:     directory,
		NamePrefix:    b.remoteCfg.Prefix,
		NameExtension: b.remoteCfg.Extension,
		MaxCount:      b.remoteCfg.MaxFiles,
		Credentials:   b.remoteCfg.Credentials(),
	})
	if err != nil {
		b.metrics.ObserveArchive(resultFailed, time.Since(start))
		b.logger.Error("failed to send backup to remote store", "directory", directory, "error", err)
		return nil, domain.ErrTransfer
	}

	b.metrics.ObserveArchive(resultArchived, time.Since(start))
	b.metrics.AddEvictions(len(result.Evicted))

	b.publishArchived(ctx, req, result)

	return result, nil
}

func (b *backupService) publishArchived(ctx context.Context, req domain.UploadRequest, result *domain.ArchiveResult) {
	event := domain.BackupArchivedEvent{
		ID:         uuid.New(),
		Directory:  result.Directory,
		FileName:   result.FileName,
		Location:   result.Location,
		SizeBytes:  result.SizeBytes,
		Evicted:    result.Evicted,
		ArchivedAt: time.Now().UTC(),
	}
	if req.Client != nil {
		event.ClientID = req.Client.ID
	}

	// The backup is already on the remote store; the event must outlive the request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := b.publisher.PublishArchived(ctx, event); err != nil {
		b.logger.Error("failed to publish archived event", "location", result.Location, "error", err)
	}
}
