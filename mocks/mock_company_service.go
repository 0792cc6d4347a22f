package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockCompanyService is a mock implementation of service.CompanyService.
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) Get(ctx context.Context, ns domain.Namespace) (*domain.CompanyProfile, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyProfile), args.Error(1)
}

func (m *MockCompanyService) Update(ctx context.Context, ns domain.Namespace, input service.CompanyInput) (*domain.CompanyProfile, error) {
	args := m.Called(ctx, ns, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyProfile), args.Error(1)
}
