package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billflow/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendPaymentReminder(ctx context.Context, reminder port.PaymentReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}
