package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"billflow/internal/domain"
)

// ShareLink is a prepared WhatsApp message for a customer.
type ShareLink struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// ShareService formats invoices and payment receipts as WhatsApp messages.
type ShareService interface {
	Invoice(ctx context.Context, ns domain.Namespace, invoiceID string) (*ShareLink, error)
	Payment(ctx context.Context, ns domain.Namespace, paymentID string) (*ShareLink, error)
}

type shareService struct {
	workspaces *WorkspaceRegistry
	baseURL    string
	printer    *message.Printer
}

// NewShareService creates a new ShareService. Links in messages point below baseURL.
func NewShareService(workspaces *WorkspaceRegistry, baseURL string) ShareService {
	return &shareService{
		workspaces: workspaces,
		baseURL:    strings.TrimRight(baseURL, "/"),
		printer:    message.NewPrinter(language.MustParse("en-IN")),
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *shareService) amount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return s.printer.Sprintf("Rs. %.2f", f)
}

func (s *shareService) link(phone, text string) *ShareLink {
	return &ShareLink{
		Phone:   phone,
		Message: text,
		URL:     fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text)),
	}
}

func (s *shareService) Invoice(ctx context.Context, ns domain.Namespace, invoiceID string) (*ShareLink, error) {
	var out *ShareLink
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		inv, ok := ws.invoices[invoiceID]
		if !ok {
			return domain.ErrNotFound
		}
		c, ok := ws.customers[inv.CustomerID]
		if !ok {
			return fmt.Errorf("%w: customer %s", domain.ErrNotFound, inv.CustomerID)
		}
		phone := digitsOnly(c.Phone)
		if phone == "" {
			return domain.ErrNoPhone
		}

		status := "PENDING ⏳"
		if inv.Status == domain.InvoiceStatusPaid {
			status = "PAID ✅"
		}
		items := make([]string, 0, len(inv.Items))
		for _, item := range inv.Items {
			items = append(items, fmt.Sprintf("- %s (x%s)", item.Description, item.Quantity))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "*TAX INVOICE*\n*%s*\n\n", ws.company.Name)
		fmt.Fprintf(&b, "Hello %s,\nHere are your invoice details:\n\n", c.DisplayName())
		fmt.Fprintf(&b, "*Inv No:* %s\n*Date:* %s\n*Amount:* %s\n*Status:* %s\n\n",
			inv.InvoiceNumber, inv.Date, s.amount(inv.Total), status)
		fmt.Fprintf(&b, "*Items:*\n%s\n\n", strings.Join(items, "\n"))
		fmt.Fprintf(&b, "📄 *View Invoice:* %s/invoice/%s\n", s.baseURL, inv.ID)
		fmt.Fprintf(&b, "📒 *View Ledger:* %s/customer/%s/ledger\n\n", s.baseURL, c.ID)
		b.WriteString("Thank you for your business!")

		out = s.link(phone, b.String())
		return nil
	})
	return out, err
}

func (s *shareService) Payment(ctx context.Context, ns domain.Namespace, paymentID string) (*ShareLink, error) {
	var out *ShareLink
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		p, ok := ws.payments[paymentID]
		if !ok {
			return domain.ErrNotFound
		}
		c, ok := ws.customers[p.CustomerID]
		if !ok {
			return fmt.Errorf("%w: customer %s", domain.ErrNotFound, p.CustomerID)
		}
		phone := digitsOnly(c.Phone)
		if phone == "" {
			return domain.ErrNoPhone
		}
		ref := p.Reference
		if ref == "" {
			ref = "N/A"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "*PAYMENT RECEIPT*\n*%s*\n\n", ws.company.Name)
		fmt.Fprintf(&b, "Hello %s,\nWe have received your payment.\n\n", c.DisplayName())
		fmt.Fprintf(&b, "*Amount:* %s\n*Date:* %s\n*Mode:* %s\n*Ref:* %s\n\n",
			s.amount(p.Amount), p.Date, p.Mode, ref)
		fmt.Fprintf(&b, "*Current Balance:* %s\n\n", s.amount(c.Balance))
		fmt.Fprintf(&b, "📒 *View Ledger:* %s/customer/%s/ledger\n\n", s.baseURL, c.ID)
		b.WriteString("Thank you!")

		out = s.link(phone, b.String())
		return nil
	})
	return out, err
}
