package port

import (
	"context"
	"io"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
)

// RemoteStore hands out sessions to the remote file store (ftp, sftp, object store)
type RemoteStore interface {
	// NewSession returns an unconnected session; it performs no I/O
	NewSession() RemoteSession
}

// RemoteSession is one connection to the remote store.
// Operations after EnsureDir are relative to the ensured directory.
// Close must be safe to call on a session that never connected.
type RemoteSession interface {
	Connect(ctx context.Context, creds domain.Credentials) error
	EnsureDir(ctx context.Context, dir string) error
	List(ctx context.Context) ([]domain.RemoteArtifact, error)
	Delete(ctx context.Context, name string) error
	Upload(ctx context.Context, name string, content io.Reader, size int64) error
	Close() error
}
