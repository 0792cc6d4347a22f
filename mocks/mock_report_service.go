package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/domain"
	"billflow/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Daybook(ctx context.Context, ns domain.Namespace, date string) (*service.Daybook, error) {
	args := m.Called(ctx, ns, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Daybook), args.Error(1)
}

func (m *MockReportService) Statement(ctx context.Context, ns domain.Namespace, customerID, from, to string) (*service.Statement, error) {
	args := m.Called(ctx, ns, customerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Statement), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context, ns domain.Namespace) (*service.Dashboard, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockReportService) Reconcile(ctx context.Context, ns domain.Namespace, fix bool) (*service.ReconcileReport, error) {
	args := m.Called(ctx, ns, fix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileReport), args.Error(1)
}
