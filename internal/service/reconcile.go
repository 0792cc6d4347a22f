package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
	"billflow/internal/ledger"
	"billflow/internal/validator"
	"billflow/internal/validator/invoice"
)

// BalanceDrift is a customer whose stored balance differs from the one implied
// by its pending invoices and payments.
type BalanceDrift struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Stored       decimal.Decimal `json:"stored"`
	Expected     decimal.Decimal `json:"expected"`
	Difference   decimal.Decimal `json:"difference"`
}

// InvoiceIssue lists the failed integrity checks of one stored invoice.
type InvoiceIssue struct {
	InvoiceID     string           `json:"invoice_id"`
	InvoiceNumber string           `json:"invoice_number"`
	Failures      []invoice.Result `json:"failures"`
}

// ReconcileReport is the outcome of a reconcile run.
type ReconcileReport struct {
	Drifts []BalanceDrift `json:"drifts"`
	Issues []InvoiceIssue `json:"issues"`
	Fixed  bool           `json:"fixed"`
}

// Reconcile recomputes every customer balance from scratch. With fix set, drifted
// balances are overwritten with the expected value and persisted.
func (w *Workspace) Reconcile(ctx context.Context, fix bool) ([]BalanceDrift, error) {
	invoices := make([]*domain.Invoice, 0, len(w.invoices))
	for _, inv := range w.invoices {
		invoices = append(invoices, inv)
	}
	payments := make([]*domain.Payment, 0, len(w.payments))
	for _, p := range w.payments {
		payments = append(payments, p)
	}
	expected := ledger.Expected(invoices, payments)

	drifts := []BalanceDrift{}
	var changed []*domain.Customer
	for _, c := range w.customerList() {
		want := expected[c.ID]
		if c.Balance.Equal(want) {
			continue
		}
		drifts = append(drifts, BalanceDrift{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Stored:       c.Balance,
			Expected:     want,
			Difference:   c.Balance.Sub(want),
		})
		if fix {
			c.Balance = want
			changed = append(changed, c)
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].CustomerID < drifts[j].CustomerID })

	if fix && len(changed) > 0 {
		if err := w.saveCustomers(ctx, changed); err != nil {
			return drifts, err
		}
		w.log.Warn().Int("customers", len(changed)).Msg("workspace.Reconcile: balances corrected")
	}
	return drifts, nil
}

func (w *Workspace) invoiceIssues(ctx context.Context, rules *validator.Registry) []InvoiceIssue {
	issues := []InvoiceIssue{}
	for _, inv := range w.invoiceList() {
		failed := rules.Failures(ctx, inv)
		if len(failed) == 0 {
			continue
		}
		issues = append(issues, InvoiceIssue{InvoiceID: inv.ID, InvoiceNumber: inv.InvoiceNumber, Failures: failed})
	}
	return issues
}
