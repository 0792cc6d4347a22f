package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
	"billflow/internal/ledger"
	"billflow/internal/logger"
	"billflow/internal/stock"
	"billflow/internal/validator"
)

// Statement entry kinds.
const (
	EntryInvoice = "INVOICE"
	EntryPayment = "PAYMENT"
)

// StatementEntry is one line of a customer statement.
type StatementEntry struct {
	Date      string          `json:"date"`
	Kind      string          `json:"kind"`
	ID        string          `json:"id"`
	Reference string          `json:"reference"`
	Status    string          `json:"status,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// Statement is a customer's ledger over an optional date range.
type Statement struct {
	Customer       domain.Customer  `json:"customer"`
	From           string           `json:"from,omitempty"`
	To             string           `json:"to,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	Entries        []StatementEntry `json:"entries"`
}

// Daybook lists the transactions of a single day.
type Daybook struct {
	Date             string           `json:"date"`
	Invoices         []domain.Invoice `json:"invoices"`
	Payments         []domain.Payment `json:"payments"`
	TotalSales       decimal.Decimal  `json:"total_sales"`
	CashSales        decimal.Decimal  `json:"cash_sales"`
	CreditSales      decimal.Decimal  `json:"credit_sales"`
	TotalReceived    decimal.Decimal  `json:"total_received"`
	TransactionCount int              `json:"transaction_count"`
}

// Dashboard is the landing page summary.
type Dashboard struct {
	TotalRevenue           decimal.Decimal  `json:"total_revenue"`
	PendingInvoices        int              `json:"pending_invoices"`
	OutstandingReceivables decimal.Decimal  `json:"outstanding_receivables"`
	CustomerCount          int              `json:"customer_count"`
	ProductCount           int              `json:"product_count"`
	InvoiceCount           int              `json:"invoice_count"`
	LowStock               []ProductView    `json:"low_stock"`
	RecentInvoices         []domain.Invoice `json:"recent_invoices"`
}

const recentInvoiceCount = 5

// ReportService produces read-only views over a namespace.
type ReportService interface {
	Daybook(ctx context.Context, ns domain.Namespace, date string) (*Daybook, error)
	Statement(ctx context.Context, ns domain.Namespace, customerID, from, to string) (*Statement, error)
	Dashboard(ctx context.Context, ns domain.Namespace) (*Dashboard, error)
	Reconcile(ctx context.Context, ns domain.Namespace, fix bool) (*ReconcileReport, error)
}

type reportService struct {
	workspaces *WorkspaceRegistry
	stock      *stock.Reconciler
	rules      *validator.Registry
}

// NewReportService creates a new ReportService implementation.
func NewReportService(workspaces *WorkspaceRegistry, opts BillingOptions, rules *validator.Registry) ReportService {
	if rules == nil {
		rules = validator.NewDefaultRegistry()
	}
	return &reportService{
		workspaces: workspaces,
		stock:      stock.NewReconciler(opts.stockPolicy()),
		rules:      rules,
	}
}

func (s *reportService) Daybook(ctx context.Context, ns domain.Namespace, date string) (*Daybook, error) {
	if date == "" {
		date = today()
	}
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	out := &Daybook{Date: date, Invoices: []domain.Invoice{}, Payments: []domain.Payment{}}
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		for _, inv := range ws.invoiceList() {
			if inv.Date != date {
				continue
			}
			out.Invoices = append(out.Invoices, copyInvoice(inv))
			out.TotalSales = out.TotalSales.Add(inv.Total)
			switch inv.Status {
			case domain.InvoiceStatusPaid:
				out.CashSales = out.CashSales.Add(inv.Total)
			case domain.InvoiceStatusPending:
				out.CreditSales = out.CreditSales.Add(inv.Total)
			}
		}
		paymentsTotal := decimal.Zero
		for _, p := range ws.paymentList() {
			if p.Date != date {
				continue
			}
			out.Payments = append(out.Payments, *p)
			paymentsTotal = paymentsTotal.Add(p.Amount)
		}
		out.TotalReceived = paymentsTotal.Add(out.CashSales)
		out.TransactionCount = len(out.Invoices) + len(out.Payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type statementLine struct {
	entry   StatementEntry
	created int64
}

func (s *reportService) Statement(ctx context.Context, ns domain.Namespace, customerID, from, to string) (*Statement, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := parseDate(d); err != nil {
			return nil, err
		}
	}

	var out *Statement
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		c, ok := ws.customers[customerID]
		if !ok {
			return domain.ErrNotFound
		}

		var lines []statementLine
		for _, inv := range ws.invoices {
			if inv.CustomerID != customerID {
				continue
			}
			lines = append(lines, statementLine{
				entry: StatementEntry{
					Date:      inv.Date,
					Kind:      EntryInvoice,
					ID:        inv.ID,
					Reference: inv.InvoiceNumber,
					Status:    string(inv.Status),
					Debit:     ledger.Effect(inv),
				},
				created: inv.CreatedAt.UnixNano(),
			})
		}
		for _, p := range ws.payments {
			if p.CustomerID != customerID {
				continue
			}
			ref := string(p.Mode)
			if p.Reference != "" {
				ref += " " + p.Reference
			}
			lines = append(lines, statementLine{
				entry: StatementEntry{
					Date:      p.Date,
					Kind:      EntryPayment,
					ID:        p.ID,
					Reference: ref,
					Credit:    p.Amount,
				},
				created: p.CreatedAt.UnixNano(),
			})
		}
		sort.Slice(lines, func(i, j int) bool {
			a, b := lines[i], lines[j]
			if a.entry.Date != b.entry.Date {
				return a.entry.Date < b.entry.Date
			}
			if a.created != b.created {
				return a.created < b.created
			}
			return a.entry.ID < b.entry.ID
		})

		st := &Statement{Customer: copyCustomer(c), From: from, To: to, Entries: []StatementEntry{}}
		running := decimal.Zero
		for _, l := range lines {
			if to != "" && l.entry.Date > to {
				break
			}
			running = running.Add(l.entry.Debit).Sub(l.entry.Credit)
			if from != "" && l.entry.Date < from {
				st.OpeningBalance = running
				continue
			}
			l.entry.Balance = running
			st.Entries = append(st.Entries, l.entry)
		}
		st.ClosingBalance = running
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *reportService) Dashboard(ctx context.Context, ns domain.Namespace) (*Dashboard, error) {
	out := &Dashboard{LowStock: []ProductView{}, RecentInvoices: []domain.Invoice{}}
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		invoices := ws.invoiceList()
		for i, inv := range invoices {
			out.TotalRevenue = out.TotalRevenue.Add(inv.Total)
			if inv.IsPending() {
				out.PendingInvoices++
			}
			if i < recentInvoiceCount {
				out.RecentInvoices = append(out.RecentInvoices, copyInvoice(inv))
			}
		}
		for _, c := range ws.customers {
			if c.Balance.IsPositive() {
				out.OutstandingReceivables = out.OutstandingReceivables.Add(c.Balance)
			}
		}
		for _, p := range ws.productList() {
			if s.stock.Tracked(p) && p.StockStatus() != domain.StockStatusInStock {
				out.LowStock = append(out.LowStock, viewProduct(p))
			}
		}
		out.CustomerCount = len(ws.customers)
		out.ProductCount = len(ws.products)
		out.InvoiceCount = len(invoices)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *reportService) Reconcile(ctx context.Context, ns domain.Namespace, fix bool) (*ReconcileReport, error) {
	// Balances are checked against what is stored, not what this process cached.
	if err := s.workspaces.Reload(ctx, ns); err != nil {
		return nil, err
	}
	out := &ReconcileReport{Fixed: fix}
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		drifts, err := ws.Reconcile(ctx, fix)
		if err != nil {
			return err
		}
		out.Drifts = drifts
		out.Issues = ws.invoiceIssues(ctx, s.rules)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log := logger.WithComponent("report")
	log.Info().
		Str("namespace", string(ns)).
		Int("drifts", len(out.Drifts)).
		Int("invoice_issues", len(out.Issues)).
		Bool("fix", fix).
		Msg("reportService.Reconcile: completed")
	return out, nil
}
