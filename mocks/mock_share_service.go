package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockShareService is a mock implementation of service.ShareService.
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Invoice(ctx context.Context, ns domain.Namespace, invoiceID string) (*service.ShareLink, error) {
	args := m.Called(ctx, ns, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareLink), args.Error(1)
}

func (m *MockShareService) Payment(ctx context.Context, ns domain.Namespace, paymentID string) (*service.ShareLink, error) {
	args := m.Called(ctx, ns, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareLink), args.Error(1)
}
