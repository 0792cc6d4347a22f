// Package noop logs emails instead of sending them.
package noop

import (
	"context"

	"billflow/internal/logger"
	"billflow/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs what would have been sent.
func NewNoopSender() port.EmailSender {
	return noopSender{}
}

func (noopSender) SendPaymentReminder(_ context.Context, r port.PaymentReminder) error {
	log := logger.WithComponent("email")
	log.Info().
		Str("to", r.ToEmail).
		Str("balance", r.Balance).
		Str("ledger_url", r.LedgerURL).
		Msg("[NOOP EMAIL] payment reminder")
	return nil
}
