package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockDataService is a mock implementation of service.DataService.
type MockDataService struct {
	mock.Mock
}

func (m *MockDataService) Export(ctx context.Context, ns domain.Namespace) (*service.Snapshot, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Snapshot), args.Error(1)
}

func (m *MockDataService) Import(ctx context.Context, ns domain.Namespace, snap *service.Snapshot) error {
	args := m.Called(ctx, ns, snap)
	return args.Error(0)
}

func (m *MockDataService) Backup(ctx context.Context, ns domain.Namespace) (*service.BackupResult, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BackupResult), args.Error(1)
}

func (m *MockDataService) Restore(ctx context.Context, ns domain.Namespace, key string) error {
	args := m.Called(ctx, ns, key)
	return args.Error(0)
}

func (m *MockDataService) ImportWorkbook(ctx context.Context, ns domain.Namespace, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, ns, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockDataService) ImportTally(ctx context.Context, ns domain.Namespace, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, ns, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}
