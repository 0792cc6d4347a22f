package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billflow/internal/config"
	"billflow/internal/domain"
	"billflow/internal/stock"
	"billflow/internal/tax"
	"billflow/internal/validator"
)

// BillingOptions are the billing policies shared by the lifecycle services.
type BillingOptions struct {
	MissingState           tax.MissingStatePolicy
	AllowNegativeStock     bool
	RejectNegativeQuantity bool
	ExemptCategory         string
	InvoicePrefix          string
	DueDays                int
}

// BillingOptionsFromConfig maps the billing configuration section.
func BillingOptionsFromConfig(cfg config.BillingConfig) BillingOptions {
	return BillingOptions{
		MissingState:           tax.MissingStatePolicy(cfg.MissingStatePolicy),
		AllowNegativeStock:     cfg.AllowNegativeStock,
		RejectNegativeQuantity: cfg.RejectNegativeQuantity,
		ExemptCategory:         cfg.ExemptCategory,
		InvoicePrefix:          cfg.InvoicePrefix,
		DueDays:                cfg.DueDays,
	}
}

// DefaultBillingOptions mirrors the configuration defaults.
func DefaultBillingOptions() BillingOptions {
	return BillingOptions{
		MissingState:       tax.MissingStateInterState,
		AllowNegativeStock: true,
		ExemptCategory:     stock.DefaultExemptCategory,
		InvoicePrefix:      "INV",
		DueDays:            30,
	}
}

func (o BillingOptions) stockPolicy() stock.Policy {
	return stock.Policy{ExemptCategory: o.ExemptCategory, AllowNegative: o.AllowNegativeStock}
}

func (o BillingOptions) calculator(company domain.CompanyProfile) *tax.Calculator {
	return tax.NewCalculator(tax.Config{GSTEnabled: company.GSTEnabled, MissingState: o.MissingState})
}

var (
	inputValidator = validator.New()
	hundred        = decimal.NewFromInt(100)
)

func validateInput(v any) error {
	return validator.Describe(inputValidator.Struct(v))
}

func validGSTRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return fmt.Errorf("%w: gst_rate must be between 0 and 100", domain.ErrValidation)
	}
	return nil
}

func newID() string {
	return uuid.New().String()
}

func today() string {
	return time.Now().Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return t, nil
}

func rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

func normalizeGSTIN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// notify prepends a notification so the log stays newest first.
func notify(c *domain.Customer, kind domain.NotificationType, title, message string) {
	n := domain.CustomerNotification{
		ID:      newID(),
		Type:    kind,
		Title:   title,
		Message: message,
		Date:    today(),
	}
	c.Notifications = append([]domain.CustomerNotification{n}, c.Notifications...)
}

// mergeCustomers returns customers with extra appended when it is not already present.
func mergeCustomers(customers []*domain.Customer, extra *domain.Customer) []*domain.Customer {
	if extra == nil {
		return customers
	}
	for _, c := range customers {
		if c.ID == extra.ID {
			return customers
		}
	}
	return append(customers, extra)
}
