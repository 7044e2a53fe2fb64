package storage

import (
	"context"
	"io"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/stretchr/testify/mock"
)

type MockRemoteStore struct {
	mock.Mock
}

func NewMockRemoteStore() *MockRemoteStore {
	return &MockRemoteStore{}
}

func (m *MockRemoteStore) NewSession() port.RemoteSession {
	args := m.Called()
	return args.Get(0).(port.RemoteSession)
}

type MockRemoteSession struct {
	mock.Mock
}

func NewMockRemoteSession() *MockRemoteSession {
	return &MockRemoteSession{}
}

func (m *MockRemoteSession) Connect(ctx context.Context, creds domain.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockRemoteSession) EnsureDir(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}

func (m *MockRemoteSession) List(ctx context.Context) ([]domain.RemoteArtifact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RemoteArtifact), args.Error(1)
}

func (m *MockRemoteSession) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockRemoteSession) Upload(ctx context.Context, name string, content io.Reader, size int64) error {
	args := m.Called(ctx, name, content, size)
	return args.Error(0)
}

func (m *MockRemoteSession) Close() error {
	args := m.Called()
	return args.Error(0)
}
