package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
	"billflow/internal/ledger"
	"billflow/internal/logger"
	"billflow/internal/metrics"
	"billflow/internal/stock"
	"billflow/internal/tax"
)

// InvoiceItemInput is one requested invoice line. Rate and GSTRate default to the
// catalog values of the referenced product when omitted.
type InvoiceItemInput struct {
	ProductID   string           `json:"product_id"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate"`
	HSN         string           `json:"hsn" binding:"omitempty,hsn"`
	GSTRate     *decimal.Decimal `json:"gst_rate"`
}

// InvoiceInput is the DTO for creating or replacing an invoice.
// Status wins over SaleMode; with neither the invoice is a credit sale.
type InvoiceInput struct {
	InvoiceNumber string               `json:"invoice_number"`
	CustomerID    string               `json:"customer_id"`
	Date          string               `json:"date" binding:"omitempty,isodate"`
	DueDate       string               `json:"due_date" binding:"omitempty,isodate"`
	Items         []InvoiceItemInput   `json:"items" binding:"dive"`
	Status        domain.InvoiceStatus `json:"status" binding:"omitempty,oneof=PAID PENDING"`
	SaleMode      domain.SaleMode      `json:"sale_mode" binding:"omitempty,oneof=CASH CREDIT"`
}

// InvoiceFilter narrows List.
type InvoiceFilter struct {
	CustomerID string
	Status     domain.InvoiceStatus
	From       string
	To         string
}

// InvoiceService is the invoice lifecycle controller. Every mutation runs the stock
// and ledger reconcilers in memory before anything is written.
type InvoiceService interface {
	Create(ctx context.Context, ns domain.Namespace, input InvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, ns domain.Namespace, id string, input InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, ns domain.Namespace, id string) error
	Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Invoice, error)
	List(ctx context.Context, ns domain.Namespace, filter InvoiceFilter) ([]domain.Invoice, error)
	HSNSummary(ctx context.Context, ns domain.Namespace, id string) ([]tax.HSNSummaryRow, error)
	LastSalePrice(ctx context.Context, ns domain.Namespace, customerID, productID string) (*decimal.Decimal, error)
}

type invoiceService struct {
	workspaces *WorkspaceRegistry
	opts       BillingOptions
	stock      *stock.Reconciler
	metrics    *metrics.Metrics
}

// NewInvoiceService creates a new InvoiceService implementation. m may be nil.
func NewInvoiceService(workspaces *WorkspaceRegistry, opts BillingOptions, m *metrics.Metrics) InvoiceService {
	return &invoiceService{
		workspaces: workspaces,
		opts:       opts,
		stock:      stock.NewReconciler(opts.stockPolicy()),
		metrics:    m,
	}
}

func copyInvoice(inv *domain.Invoice) domain.Invoice {
	out := *inv
	out.Items = make([]domain.InvoiceItem, len(inv.Items))
	copy(out.Items, inv.Items)
	return out
}

// validate rejects inputs that must never reach the reconcilers.
func (s *invoiceService) validate(input InvoiceInput) error {
	if strings.TrimSpace(input.CustomerID) == "" {
		return domain.ErrCustomerRequired
	}
	if len(input.Items) == 0 {
		return domain.ErrEmptyItems
	}
	if err := validateInput(input); err != nil {
		return err
	}
	for i, item := range input.Items {
		if item.GSTRate != nil {
			if err := validGSTRate(*item.GSTRate); err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
		}
		if !s.opts.RejectNegativeQuantity {
			continue
		}
		if !item.Quantity.IsPositive() || (item.Rate != nil && item.Rate.IsNegative()) {
			return fmt.Errorf("%w: items[%d]", domain.ErrInvalidQuantity, i)
		}
	}
	return nil
}

// build turns input into a fully calculated invoice. Nothing in the workspace is modified.
func (s *invoiceService) build(ws *Workspace, input InvoiceInput) (*domain.Invoice, error) {
	customer, ok := ws.customers[input.CustomerID]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s does not exist", domain.ErrCustomerRequired, input.CustomerID)
	}

	date := input.Date
	if date == "" {
		date = today()
	}
	dueDate := input.DueDate
	if dueDate == "" {
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		dueDate = d.AddDate(0, 0, s.opts.DueDays).Format(domain.DateLayout)
	}

	status := input.Status
	saleMode := input.SaleMode
	switch {
	case status != "":
		if saleMode == "" {
			saleMode = domain.SaleModeCredit
			if status == domain.InvoiceStatusPaid {
				saleMode = domain.SaleModeCash
			}
		}
	case saleMode != "":
		status = saleMode.Status()
	default:
		saleMode = domain.SaleModeCredit
		status = saleMode.Status()
	}

	inv := &domain.Invoice{
		InvoiceNumber:   strings.TrimSpace(input.InvoiceNumber),
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerAddress: customer.Address,
		CustomerState:   customer.State,
		CustomerGSTIN:   customer.GSTIN,
		Date:            date,
		DueDate:         dueDate,
		Items:           make([]domain.InvoiceItem, 0, len(input.Items)),
		Status:          status,
		SaleMode:        saleMode,
	}
	for _, in := range input.Items {
		item := domain.InvoiceItem{
			ProductID:   strings.TrimSpace(in.ProductID),
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			HSN:         strings.TrimSpace(in.HSN),
		}
		product := ws.products[item.ProductID]
		switch {
		case in.Rate != nil:
			item.Rate = *in.Rate
		case product != nil:
			item.Rate = product.Price
		}
		switch {
		case in.GSTRate != nil:
			item.GSTRate = *in.GSTRate
		case product != nil:
			item.GSTRate = product.GSTRate
		}
		if product != nil {
			if item.Description == "" {
				item.Description = product.Name
			}
			if item.HSN == "" {
				item.HSN = product.HSN
			}
		}
		inv.Items = append(inv.Items, item)
	}

	calc := s.opts.calculator(ws.company)
	supplier := tax.Party{State: ws.company.State, GSTIN: ws.company.GSTIN}
	buyer := tax.Party{State: customer.State, GSTIN: customer.GSTIN}
	if err := calc.CalculateInvoice(inv, supplier, buyer); err != nil {
		return nil, err
	}
	return inv, nil
}

// nextInvoiceNumber returns {prefix}-{year}-{NNN}, one past the highest number
// already used for that prefix and year.
func (s *invoiceService) nextInvoiceNumber(ws *Workspace, date string) string {
	year := strconv.Itoa(time.Now().Year())
	if d, err := parseDate(date); err == nil {
		year = strconv.Itoa(d.Year())
	}
	stem := s.opts.InvoicePrefix + "-" + year + "-"
	highest := 0
	for _, inv := range ws.invoices {
		if !strings.HasPrefix(inv.InvoiceNumber, stem) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(inv.InvoiceNumber, stem))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", stem, highest+1)
}

func (s *invoiceService) Create(ctx context.Context, ns domain.Namespace, input InvoiceInput) (*domain.Invoice, error) {
	tracker := s.metrics.Track("invoice_create")
	if err := s.validate(input); err != nil {
		return nil, tracker.End(err)
	}
	log := logger.WithComponent("invoice")

	var out domain.Invoice
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		inv, err := s.build(ws, input)
		if err != nil {
			return err
		}
		plan, err := s.stock.Plan(ws.products, stock.ForCreate(inv.Items))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		inv.ID = newID()
		if inv.InvoiceNumber == "" {
			inv.InvoiceNumber = s.nextInvoiceNumber(ws, inv.Date)
		}
		inv.CreatedAt = now
		inv.UpdatedAt = now

		products := plan.Commit()
		customers := ledger.ForCreate(inv).Apply(ws.customers)
		ws.invoices[inv.ID] = inv

		customer := ws.customers[inv.CustomerID]
		notify(customer, domain.NotificationInvoice, "New Invoice Generated",
			fmt.Sprintf("Invoice #%s for %s has been created.", inv.InvoiceNumber, rupees(inv.Total)))
		customers = mergeCustomers(customers, customer)

		out = copyInvoice(inv)
		return s.persist(ctx, ws, products, inv, customers)
	})
	if err != nil {
		log.Warn().Err(err).Str("namespace", string(ns)).Msg("invoiceService.Create: failed")
		return nil, tracker.End(err)
	}
	log.Info().
		Str("namespace", string(ns)).
		Str("invoice_id", out.ID).
		Str("invoice_number", out.InvoiceNumber).
		Str("status", string(out.Status)).
		Str("total", out.Total.String()).
		Msg("invoiceService.Create: invoice created")
	return &out, tracker.End(nil)
}

func (s *invoiceService) Update(ctx context.Context, ns domain.Namespace, id string, input InvoiceInput) (*domain.Invoice, error) {
	tracker := s.metrics.Track("invoice_update")
	if err := s.validate(input); err != nil {
		return nil, tracker.End(err)
	}
	log := logger.WithComponent("invoice")

	var out domain.Invoice
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		old, ok := ws.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		inv, err := s.build(ws, input)
		if err != nil {
			return err
		}
		plan, err := s.stock.Plan(ws.products, stock.ForUpdate(old.Items, inv.Items))
		if err != nil {
			return err
		}

		inv.ID = old.ID
		if inv.InvoiceNumber == "" {
			inv.InvoiceNumber = old.InvoiceNumber
		}
		inv.CreatedAt = old.CreatedAt
		inv.UpdatedAt = time.Now().UTC()

		products := plan.Commit()
		customers := ledger.ForUpdate(old, inv).Apply(ws.customers)
		ws.invoices[inv.ID] = inv

		if !old.Total.Equal(inv.Total) {
			customer := ws.customers[inv.CustomerID]
			notify(customer, domain.NotificationInvoice, "Invoice Updated",
				fmt.Sprintf("Invoice #%s has been updated to %s.", inv.InvoiceNumber, rupees(inv.Total)))
			customers = mergeCustomers(customers, customer)
		}

		out = copyInvoice(inv)
		return s.persist(ctx, ws, products, inv, customers)
	})
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", id).Msg("invoiceService.Update: failed")
		return nil, tracker.End(err)
	}
	log.Info().Str("invoice_id", id).Str("total", out.Total.String()).Msg("invoiceService.Update: invoice replaced")
	return &out, tracker.End(nil)
}

func (s *invoiceService) Delete(ctx context.Context, ns domain.Namespace, id string) error {
	tracker := s.metrics.Track("invoice_delete")
	log := logger.WithComponent("invoice")

	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		inv, ok := ws.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		plan, err := s.stock.Plan(ws.products, stock.ForDelete(inv.Items))
		if err != nil {
			return err
		}
		products := plan.Commit()
		customers := ledger.ForDelete(inv).Apply(ws.customers)
		delete(ws.invoices, id)

		if err := ws.saveProducts(ctx, products); err != nil {
			return err
		}
		if err := ws.remove(ctx, domain.CollectionInvoices, id); err != nil {
			return err
		}
		return ws.saveCustomers(ctx, customers)
	})
	if err != nil {
		return tracker.End(err)
	}
	log.Info().Str("invoice_id", id).Msg("invoiceService.Delete: invoice deleted")
	return tracker.End(nil)
}

// persist writes products, then the invoice, then customers. A failure part way
// leaves the earlier writes in place.
func (s *invoiceService) persist(ctx context.Context, ws *Workspace, products []*domain.Product, inv *domain.Invoice, customers []*domain.Customer) error {
	if err := ws.saveProducts(ctx, products); err != nil {
		return err
	}
	if err := ws.saveInvoice(ctx, inv); err != nil {
		return err
	}
	return ws.saveCustomers(ctx, customers)
}

func (s *invoiceService) Get(ctx context.Context, ns domain.Namespace, id string) (*domain.Invoice, error) {
	var out domain.Invoice
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		inv, ok := ws.invoices[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = copyInvoice(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *invoiceService) List(ctx context.Context, ns domain.Namespace, filter InvoiceFilter) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		out = make([]domain.Invoice, 0, len(ws.invoices))
		for _, inv := range ws.invoiceList() {
			if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
				continue
			}
			if filter.Status != "" && inv.Status != filter.Status {
				continue
			}
			if filter.From != "" && inv.Date < filter.From {
				continue
			}
			if filter.To != "" && inv.Date > filter.To {
				continue
			}
			out = append(out, copyInvoice(inv))
		}
		return nil
	})
	return out, err
}

func (s *invoiceService) HSNSummary(ctx context.Context, ns domain.Namespace, id string) ([]tax.HSNSummaryRow, error) {
	inv, err := s.Get(ctx, ns, id)
	if err != nil {
		return nil, err
	}
	return tax.HSNSummary(inv.Items), nil
}

// LastSalePrice returns the rate the product was last sold at to the customer,
// or nil when it never was.
func (s *invoiceService) LastSalePrice(ctx context.Context, ns domain.Namespace, customerID, productID string) (*decimal.Decimal, error) {
	var out *decimal.Decimal
	err := s.workspaces.With(ctx, ns, func(ws *Workspace) error {
		if _, ok := ws.customers[customerID]; !ok {
			return domain.ErrNotFound
		}
		for _, inv := range ws.invoiceList() {
			if inv.CustomerID != customerID {
				continue
			}
			for i := range inv.Items {
				if inv.Items[i].ProductID == productID {
					rate := inv.Items[i].Rate
					out = &rate
					return nil
				}
			}
		}
		return nil
	})
	return out, err
}
