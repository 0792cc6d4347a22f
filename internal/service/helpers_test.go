package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/port"
	"billflow/internal/repository/memory"
	"billflow/internal/service"
	"billflow/mocks"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	ns    domain.Namespace
	store port.DocumentStore
	opts  service.BillingOptions

	workspaces *service.WorkspaceRegistry
	company    service.CompanyService
	products   service.ProductService
	customers  service.CustomerService
	invoices   service.InvoiceService
	payments   service.PaymentService
	reports    service.ReportService
	share      service.ShareService
	email      *mocks.MockEmailSender
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, service.DefaultBillingOptions(), memory.NewDocumentStore())
}

func newFixtureWith(t *testing.T, opts service.BillingOptions, store port.DocumentStore) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		ns:    domain.UserNamespace("u1"),
		store: store,
		opts:  opts,
		email: new(mocks.MockEmailSender),
	}
	f.wire()
	return f
}

// wire builds the services on a fresh registry over the fixture's store.
func (f *fixture) wire() {
	f.workspaces = service.NewWorkspaceRegistry(f.store, true)
	f.company = service.NewCompanyService(f.workspaces)
	f.products = service.NewProductService(f.workspaces)
	f.customers = service.NewCustomerService(f.workspaces, f.email, "https://bills.example")
	f.invoices = service.NewInvoiceService(f.workspaces, f.opts, nil)
	f.payments = service.NewPaymentService(f.workspaces, nil)
	f.reports = service.NewReportService(f.workspaces, f.opts, nil)
	f.share = service.NewShareService(f.workspaces, "https://bills.example")
}

func (f *fixture) setCompany(state string, gst bool) {
	f.t.Helper()
	_, err := f.company.Update(f.ctx, f.ns, service.CompanyInput{Name: "ABC Trading Company", State: state, GSTEnabled: gst})
	require.NoError(f.t, err)
}

func (f *fixture) customer(name, state string) *domain.Customer {
	f.t.Helper()
	c, err := f.customers.Create(f.ctx, f.ns, service.CustomerInput{Name: name, State: state, Phone: "+91 98765-43210"})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) product(name, price, stock, category string) *domain.Product {
	f.t.Helper()
	p, err := f.products.Create(f.ctx, f.ns, service.ProductInput{
		Name: name, Price: dec(price), Stock: dec(stock), Category: category, GSTRate: dec("18"),
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) balance(customerID string) decimal.Decimal {
	f.t.Helper()
	c, err := f.customers.Get(f.ctx, f.ns, customerID)
	require.NoError(f.t, err)
	return c.Balance
}

func (f *fixture) stock(productID string) decimal.Decimal {
	f.t.Helper()
	p, err := f.products.Get(f.ctx, f.ns, productID)
	require.NoError(f.t, err)
	return p.Stock
}

func line(productID, qty string) service.InvoiceItemInput {
	return service.InvoiceItemInput{ProductID: productID, Quantity: dec(qty)}
}

func adHoc(desc, qty, rate, gst string) service.InvoiceItemInput {
	return service.InvoiceItemInput{Description: desc, Quantity: dec(qty), Rate: ptr(rate), GSTRate: ptr(gst)}
}

func credit(customerID string, items ...service.InvoiceItemInput) service.InvoiceInput {
	return service.InvoiceInput{CustomerID: customerID, Date: "2024-03-10", SaleMode: domain.SaleModeCredit, Items: items}
}

func cash(customerID string, items ...service.InvoiceItemInput) service.InvoiceInput {
	return service.InvoiceInput{CustomerID: customerID, Date: "2024-03-10", SaleMode: domain.SaleModeCash, Items: items}
}
