package repository

import (
	"context"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockClientRepository struct {
	mock.Mock
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{}
}

func (m *MockClientRepository) Create(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByToken(ctx context.Context, token string) (*domain.Client, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) UpdateLastBackup(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockArchiveLogRepository struct {
	mock.Mock
}

func NewMockArchiveLogRepository() *MockArchiveLogRepository {
	return &MockArchiveLogRepository{}
}

func (m *MockArchiveLogRepository) Create(ctx context.Context, record domain.ArchiveRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockArchiveLogRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit int) ([]domain.ArchiveRecord, error) {
	args := m.Called(ctx, clientID, limit)
	return args.Get(0).([]domain.ArchiveRecord), args.Error(1)
}

type MockClientCache struct {
	mock.Mock
}

func NewMockClientCache() *MockClientCache {
	return &MockClientCache{}
}

func (m *MockClientCache) Get(ctx context.Context, token string) (*domain.Client, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientCache) Set(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientCache) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockUnitOfWork runs fn against itself, exposing the mock repositories
type MockUnitOfWork struct {
	mock.Mock
	Clients     *MockClientRepository
	ArchiveLogs *MockArchiveLogRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Clients:     NewMockClientRepository(),
		ArchiveLogs: NewMockArchiveLogRepository(),
	}
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockUnitOfWork) ClientRepo() port.ClientRepository {
	return m.Clients
}

func (m *MockUnitOfWork) ArchiveLogRepo() port.ArchiveLogRepository {
	return m.ArchiveLogs
}
