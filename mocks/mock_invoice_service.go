package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
	"billflow/internal/tax"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, ns domain.Namespace, input service.InvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, ns, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, ns domain.Namespace, id string, input service.InvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, ns, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, ns domain.Namespace, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}

func (m *MockInvoiceService) Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Invoice, error) {
	args := m.Called(ctx, ns, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, ns domain.Namespace, filter service.InvoiceFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, ns, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) HSNSummary(ctx context.Context, ns domain.Namespace, id string) ([]tax.HSNSummaryRow, error) {
	args := m.Called(ctx, ns, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tax.HSNSummaryRow), args.Error(1)
}

func (m *MockInvoiceService) LastSalePrice(ctx context.Context, ns domain.Namespace, customerID, productID string) (*decimal.Decimal, error) {
	args := m.Called(ctx, ns, customerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decimal.Decimal), args.Error(1)
}
