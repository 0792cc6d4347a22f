// Package ses delivers payment reminders through Amazon SES.
package ses

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"billflow/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendPaymentReminder(ctx context.Context, r port.PaymentReminder) error {
	subject := fmt.Sprintf("Payment reminder from %s", r.CompanyName)
	textBody := reminderText(r)
	htmlBody := reminderHTML(r)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{r.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func reminderText(r port.PaymentReminder) string {
	return fmt.Sprintf("Dear %s,\n\nThis is a friendly reminder that an outstanding balance of %s is due to %s.\n\nYou can view your ledger here:\n%s\n\nThank you,\n%s",
		r.ToName, r.Balance, r.CompanyName, r.LedgerURL, r.CompanyName)
}

func reminderHTML(r port.PaymentReminder) string {
	name := html.EscapeString(r.ToName)
	company := html.EscapeString(r.CompanyName)
	link := html.EscapeString(r.LedgerURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Payment reminder</h2>
  <p>Dear %s,</p>
  <p>This is a friendly reminder that an outstanding balance of <strong>%s</strong> is due to %s.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Ledger</a>
  </p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, name, html.EscapeString(r.Balance), company, link, link, company)
}
