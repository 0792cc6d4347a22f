package port

import "context"

// PaymentReminder is the content of a reminder email.
type PaymentReminder struct {
	ToEmail     string
	ToName      string
	CompanyName string
	Balance     string
	LedgerURL   string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendPaymentReminder(ctx context.Context, reminder PaymentReminder) error
}
