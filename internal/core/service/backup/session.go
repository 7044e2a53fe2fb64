package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
)

// SessionState is the step reached by a transfer session
type SessionState string

const (
	StateDisconnected   SessionState = "disconnected"
	StateConnected      SessionState = "connected"
	StateDirectoryReady SessionState = "directory_ready"
	StateListed         SessionState = "listed"
	StateEvicted        SessionState = "evicted"
	StateUploaded       SessionState = "uploaded"
)

// SessionParams are the inputs of one transfer session
type SessionParams struct {
	Directory     string
	NamePrefix    string
	NameExtension string
	MaxCount      int
	Credentials   domain.Credentials
}

// TransferSession drives one remote session: connect, ensure directory, list,
// evict, upload. The session is closed on every exit path.
type TransferSession struct {
	store  port.RemoteStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTransferSession creates a TransferSession
func NewTransferSession(store port.RemoteStore, logger *slog.Logger) *TransferSession {
	return &TransferSession{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the clock used to name new backups
func (t *TransferSession) WithClock(now func() time.Time) *TransferSession {
	t.now = now
	return t
}

// ArchiveWithSession stores content as a new backup in params.Directory
func (t *TransferSession) ArchiveWithSession(ctx context.Context, content []byte, params SessionParams) (result *domain.ArchiveResult, err error) {
	fileName := BackupFileName(params.NamePrefix, params.NameExtension, t.now())
	logger := t.logger.With("directory", params.Directory, "file", fileName)

	session := t.store.NewSession()
	state := StateDisconnected

	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warn("failed to close remote session", "error", closeErr)
		}
		if err != nil {
			logger.Error("transfer session aborted", "state", state, "error", err)
		}
		logger.Debug("transfer session state", "state", StateDisconnected)
	}()

	if err = session.Connect(ctx, params.Credentials); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	state = t.advance(logger, StateConnected)

	if err = stepContext(ctx, domain.ErrDirectory); err != nil {
		return nil, err
	}
	if err = session.EnsureDir(ctx, params.Directory); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDirectory, params.Directory, err)
	}
	state = t.advance(logger, StateDirectoryReady)

	if err = stepContext(ctx, domain.ErrListing); err != nil {
		return nil, err
	}
	artifacts, err := session.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListing, err)
	}
	state = t.advance(logger, StateListed)

	extension := strings.TrimPrefix(params.NameExtension, ".")
	plan, err := PlanEviction(artifacts, params.NamePrefix, "."+extension, params.MaxCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEviction, err)
	}
	for _, artifact := range plan.ToDelete {
		if err = stepContext(ctx, domain.ErrEviction); err != nil {
			return nil, err
		}
		logger.Info("removing old backup", "name", artifact.Name)
		if err = session.Delete(ctx, artifact.Name); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrEviction, artifact.Name, err)
		}
	}
	state = t.advance(logger, StateEvicted)

	if err = stepContext(ctx, domain.ErrUpload); err != nil {
		return nil, err
	}
	if err = session.Upload(ctx, fileName, bytes.NewReader(content), int64(len(content))); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	state = t.advance(logger, StateUploaded)

	location := path.Join(params.Directory, fileName)
	logger.Info("backup uploaded", "location", location, "evicted", len(plan.ToDelete))

	return &domain.ArchiveResult{
		Location:  location,
		Directory: params.Directory,
		FileName:  fileName,
		SizeBytes: int64(len(content)),
		Evicted:   plan.Names(),
	}, nil
}

func (t *TransferSession) advance(logger *slog.Logger, state SessionState) SessionState {
	logger.Debug("transfer session state", "state", state)
	return state
}

func stepContext(ctx context.Context, stepErr error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", stepErr, err)
	}
	return nil
}

// BackupFileName builds {prefix}{ISO-8601 UTC time with ':' and '.' replaced by '-'}.{extension}
func BackupFileName(prefix string, extension string, at time.Time) string {
	timestamp := at.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	timestamp = strings.NewReplacer(":", "-", ".", "-").Replace(timestamp)
	return fmt.Sprintf("%s%s.%s", prefix, timestamp, strings.TrimPrefix(extension, "."))
}
