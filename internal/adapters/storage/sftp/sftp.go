package sftp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"strconv"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultPort = 22

// HostKeyCallback verifies server keys against a known_hosts file.
// Without a file every host key is accepted.
func HostKeyCallback(knownHostsFile string, logger *slog.Logger) (ssh.HostKeyCallback, error) {
	if knownHostsFile == "" {
		logger.Warn("SFTP_KNOWN_HOSTS not set, host keys are not verified")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(knownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts: %w", err)
	}
	return callback, nil
}

// Store is a remote store reached over SFTP with password authentication
type Store struct {
	hostKeyCallback ssh.HostKeyCallback
	logger          *slog.Logger
}

// NewStore returns Store
func NewStore(hostKeyCallback ssh.HostKeyCallback, logger *slog.Logger) *Store {
	return &Store{hostKeyCallback: hostKeyCallback, logger: logger}
}

// NewSession implements port.RemoteStore
func (s *Store) NewSession() port.RemoteSession {
	return &session{hostKeyCallback: s.hostKeyCallback, logger: s.logger}
}

type session struct {
	hostKeyCallback ssh.HostKeyCallback
	logger          *slog.Logger
	sshClient       *ssh.Client
	client          *sftp.Client
	dir             string
}

// Connect opens the SSH connection and the SFTP subsystem
func (s *session) Connect(ctx context.Context, creds domain.Credentials) error {
	port := creds.Port
	if port == 0 {
		port = defaultPort
	}
	addr := net.JoinHostPort(creds.Host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: creds.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
		User:            creds.User,
		Auth:            []ssh.AuthMethod{ssh.Password(creds.Password)},
		HostKeyCallback: s.hostKeyCallback,
		Timeout:         creds.Timeout,
	})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open ssh connection as %s: %w", creds.User, err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return fmt.Errorf("failed to start sftp subsystem: %w", err)
	}

	s.sshClient = sshClient
	s.client = client
	s.logger.Debug("sftp session connected", slog.String("addr", addr))
	return nil
}

// EnsureDir creates dir with its parents and selects it
func (s *session) EnsureDir(ctx context.Context, dir string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	dir = path.Clean("/" + dir)
	if err := s.client.MkdirAll(dir); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	s.dir = dir
	return nil
}

// List returns the regular files of the current directory
func (s *session) List(ctx context.Context) ([]domain.RemoteArtifact, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	infos, err := s.client.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	artifacts := make([]domain.RemoteArtifact, 0, len(infos))
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		artifacts = append(artifacts, toArtifact(info))
	}
	return artifacts, nil
}

// Delete removes a file of the current directory
func (s *session) Delete(ctx context.Context, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.client.Remove(path.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Upload writes content as name in the current directory
func (s *session) Upload(ctx context.Context, name string, content io.Reader, _ int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	file, err := s.client.Create(path.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := file.ReadFrom(content); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// Close ends the SFTP subsystem and the SSH connection
func (s *session) Close() error {
	if s.client == nil {
		return nil
	}
	client, sshClient := s.client, s.sshClient
	s.client, s.sshClient = nil, nil

	clientErr := client.Close()
	if err := sshClient.Close(); err != nil && clientErr == nil {
		return fmt.Errorf("failed to close ssh connection: %w", err)
	}
	if clientErr != nil {
		return fmt.Errorf("failed to close sftp client: %w", clientErr)
	}
	return nil
}

func (s *session) ready(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("session not connected")
	}
	return ctx.Err()
}

func toArtifact(info os.FileInfo) domain.RemoteArtifact {
	modifiedAt := info.ModTime()
	return domain.RemoteArtifact{Name: info.Name(), Size: info.Size(), ModifiedAt: &modifiedAt}
}
