package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Record(ctx context.Context, ns domain.Namespace, input service.PaymentInput) (*domain.Payment, error) {
	args := m.Called(ctx, ns, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) Reverse(ctx context.Context, ns domain.Namespace, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}

func (m *MockPaymentService) Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Payment, error) {
	args := m.Called(ctx, ns, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context, ns domain.Namespace, customerID string) ([]domain.Payment, error) {
	args := m.Called(ctx, ns, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
