package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/JesuSe7e/api-envio-ftp/internal/config"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is a remote store backed by an S3 compatible bucket.
// Directories are emulated with key prefixes.
type Store struct {
	config      config.MinioConfig
	contentType string
	logger      *slog.Logger
}

// NewStore returns Store; uploaded objects are tagged with contentType
func NewStore(cfg config.MinioConfig, contentType string, logger *slog.Logger) *Store {
	return &Store{config: cfg, contentType: contentType, logger: logger}
}

// NewSession implements port.RemoteStore
func (s *Store) NewSession() port.RemoteSession {
	return &session{bucket: s.config.BucketName, region: s.config.Region, contentType: s.contentType, logger: s.logger}
}

type session struct {
	bucket      string
	region      string
	contentType string
	logger      *slog.Logger
	client      *minio.Client
	prefix      string
}

// Connect creates the client and makes sure the bucket exists
func (s *session) Connect(ctx context.Context, creds domain.Credentials) error {
	endpoint := creds.Host
	if creds.Port > 0 {
		endpoint = net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port))
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.User, creds.Password, ""),
		Secure: creds.Secure,
		Region: s.region,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}

	if creds.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, creds.Timeout)
		defer cancel()
	}

	exists, err := client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info("bucket created", slog.String("bucket", s.bucket))
	}

	s.client = client
	return nil
}

// EnsureDir selects the key prefix used by the following operations
func (s *session) EnsureDir(_ context.Context, dir string) error {
	if s.client == nil {
		return fmt.Errorf("session not connected")
	}
	s.prefix = keyPrefix(dir)
	return nil
}

// List returns the objects directly under the current prefix
func (s *session) List(ctx context.Context) ([]domain.RemoteArtifact, error) {
	if s.client == nil {
		return nil, fmt.Errorf("session not connected")
	}

	var artifacts []domain.RemoteArtifact
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		name := strings.TrimPrefix(object.Key, s.prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		modifiedAt := object.LastModified
		artifacts = append(artifacts, domain.RemoteArtifact{
			Name:       name,
			Size:       object.Size,
			ModifiedAt: &modifiedAt,
		})
	}
	return artifacts, nil
}

// Delete removes an object under the current prefix
func (s *session) Delete(ctx context.Context, name string) error {
	if s.client == nil {
		return fmt.Errorf("session not connected")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.prefix+name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	s.logger.Info("object deleted", slog.String("fileKey", s.prefix+name), slog.String("bucket", s.bucket))
	return nil
}

// Upload writes an object under the current prefix
func (s *session) Upload(ctx context.Context, name string, content io.Reader, size int64) error {
	if s.client == nil {
		return fmt.Errorf("session not connected")
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.prefix+name, content, size, minio.PutObjectOptions{
		ContentType: s.contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Close releases the client; the HTTP transport holds no dedicated connection
func (s *session) Close() error {
	s.client = nil
	return nil
}

func keyPrefix(dir string) string {
	trimmed := strings.Trim(dir, "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}
