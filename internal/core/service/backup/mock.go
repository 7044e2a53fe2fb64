package backup

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockBackupService is a mock implementation of BackupService
type MockBackupService struct {
	mock.Mock
}

// NewMockBackupService creates a new MockBackupService
func NewMockBackupService() *MockBackupService {
	return &MockBackupService{}
}

func (m *MockBackupService) Archive(ctx context.Context, req domain.UploadRequest) (*domain.ArchiveResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.ArchiveResult), args.Error(1)
}
