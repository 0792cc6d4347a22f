package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, ns domain.Namespace) ([]service.ProductView, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ProductView), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, ns domain.Namespace, id string) (*service.ProductView, error) {
	args := m.Called(ctx, ns, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductView), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, ns domain.Namespace, input service.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, ns, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, ns domain.Namespace, id string, input service.ProductInput) (*domain.Product, error) {
	args := m.Called(ctx, ns, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, ns domain.Namespace, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}
