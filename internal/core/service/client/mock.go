package client

import (
	"context"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockClientService is a mock implementation of ClientService
type MockClientService struct {
	mock.Mock
}

// NewMockClientService creates a new MockClientService
func NewMockClientService() *MockClientService {
	return &MockClientService{}
}

func (m *MockClientService) Authenticate(ctx context.Context, token string) (*domain.Client, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.Client), args.Error(1)
}
