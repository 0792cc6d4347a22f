package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockCustomerService is a mock implementation of service.CustomerService.
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) List(ctx context.Context, ns domain.Namespace) ([]domain.Customer, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Customer, error) {
	args := m.Called(ctx, ns, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) Create(ctx context.Context, ns domain.Namespace, input service.CustomerInput) (*domain.Customer, error) {
	args := m.Called(ctx, ns, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, ns domain.Namespace, id string, input service.CustomerInput) (*domain.Customer, error) {
	args := m.Called(ctx, ns, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, ns domain.Namespace, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}

func (m *MockCustomerService) SendReminder(ctx context.Context, ns domain.Namespace, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}

func (m *MockCustomerService) MarkNotificationsRead(ctx context.Context, ns domain.Namespace, id string) (*domain.Customer, error) {
	args := m.Called(ctx, ns, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
