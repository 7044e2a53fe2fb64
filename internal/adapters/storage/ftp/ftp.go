package ftp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path"
	"strconv"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/jlaffaye/ftp"
)

const defaultPort = 21

// Store is a remote store reached over FTP, optionally with explicit TLS
type Store struct {
	logger      *slog.Logger
	dialOptions []ftp.DialOption
}

// NewStore returns Store. Extra dial options are appended to the ones built
// from the session credentials.
func NewStore(logger *slog.Logger, dialOptions ...ftp.DialOption) *Store {
	return &Store{logger: logger, dialOptions: dialOptions}
}

// NewSession implements port.RemoteStore
func (s *Store) NewSession() port.RemoteSession {
	return &session{logger: s.logger, dialOptions: s.dialOptions}
}

type session struct {
	logger      *slog.Logger
	dialOptions []ftp.DialOption
	conn        *ftp.ServerConn
	dir         string
}

// Connect dials the server and logs in
func (s *session) Connect(ctx context.Context, creds domain.Credentials) error {
	port := creds.Port
	if port == 0 {
		port = defaultPort
	}
	addr := net.JoinHostPort(creds.Host, strconv.Itoa(port))

	options := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if creds.Timeout > 0 {
		options = append(options, ftp.DialWithTimeout(creds.Timeout))
	}
	if creds.Secure {
		options = append(options, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: creds.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}
	options = append(options, s.dialOptions...)

	conn, err := ftp.Dial(addr, options...)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	if err := conn.Login(creds.User, creds.Password); err != nil {
		_ = conn.Quit()
		return fmt.Errorf("failed to login as %s: %w", creds.User, err)
	}

	s.conn = conn
	s.logger.Debug("ftp session connected", slog.String("addr", addr), slog.Bool("secure", creds.Secure))
	return nil
}

// EnsureDir creates every missing segment of dir and enters it
func (s *session) EnsureDir(ctx context.Context, dir string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	dir = path.Clean("/" + dir)
	current := "/"
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" {
			continue
		}
		current = path.Join(current, segment)
		// the segment usually exists already; ChangeDir below reports real failures
		_ = s.conn.MakeDir(current)
	}

	if err := s.conn.ChangeDir(dir); err != nil {
		return fmt.Errorf("failed to enter %s: %w", dir, err)
	}
	s.dir = dir
	return nil
}

// List returns the regular files of the current directory
func (s *session) List(ctx context.Context) ([]domain.RemoteArtifact, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	entries, err := s.conn.List(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	artifacts := make([]domain.RemoteArtifact, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != ftp.EntryTypeFile {
			continue
		}
		artifact := domain.RemoteArtifact{Name: path.Base(entry.Name), Size: int64(entry.Size)}
		if !entry.Time.IsZero() {
			modifiedAt := entry.Time
			artifact.ModifiedAt = &modifiedAt
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// Delete removes a file of the current directory
func (s *session) Delete(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.conn.Delete(path.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Upload stores content as name in the current directory
func (s *session) Upload(ctx context.Context, name string, content io.Reader, _ int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.conn.Stor(path.Join(s.dir, name), content); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// Close ends the control connection; it is a no-op when never connected
func (s *session) Close() error {
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	if err := conn.Quit(); err != nil {
		return fmt.Errorf("failed to quit: %w", err)
	}
	return nil
}

func (s *session) ready(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("session not connected")
	}
	return ctx.Err()
}
