package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/service"
)

func TestReportService_Daybook(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")

	_, err := f.invoices.Create(f.ctx, f.ns, credit(c.ID, adHoc("a", "1", "1000", "0")))
	require.NoError(t, err)
	_, err = f.invoices.Create(f.ctx, f.ns, cash(c.ID, adHoc("b", "1", "500", "0")))
	require.NoError(t, err)
	other := credit(c.ID, adHoc("c", "1", "9999", "0"))
	other.Date = "2024-03-11"
	_, err = f.invoices.Create(f.ctx, f.ns, other)
	require.NoError(t, err)
	_, err = f.payments.Record(f.ctx, f.ns, service.PaymentInput{CustomerID: c.ID, Amount: dec("200"), Date: "2024-03-10"})
	require.NoError(t, err)

	book, err := f.reports.Daybook(f.ctx, f.ns, "2024-03-10")
	require.NoError(t, err)
	assert.Len(t, book.Invoices, 2)
	assert.Len(t, book.Payments, 1)
	assert.True(t, book.TotalSales.Equal(dec("1500")))
	assert.True(t, book.CashSales.Equal(dec("500")))
	assert.True(t, book.CreditSales.Equal(dec("1000")))
	assert.True(t, book.TotalReceived.Equal(dec("700")))
	assert.Equal(t, 3, book.TransactionCount)

	_, err = f.reports.Daybook(f.ctx, f.ns, "March 10")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestReportService_Statement(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")

	for _, in := range []service.InvoiceInput{
		{CustomerID: c.ID, Date: "2024-01-05", Items: []service.InvoiceItemInput{adHoc("a", "1", "1000", "0")}},
		{CustomerID: c.ID, Date: "2024-02-10", SaleMode: domain.SaleModeCash, Items: []service.InvoiceItemInput{adHoc("b", "1", "300", "0")}},
		{CustomerID: c.ID, Date: "2024-03-01", Items: []service.InvoiceItemInput{adHoc("c", "1", "200", "0")}},
	} {
		_, err := f.invoices.Create(f.ctx, f.ns, in)
		require.NoError(t, err)
	}
	_, err := f.payments.Record(f.ctx, f.ns, service.PaymentInput{CustomerID: c.ID, Amount: dec("400"), Date: "2024-01-20", Reference: "R-1"})
	require.NoError(t, err)

	full, err := f.reports.Statement(f.ctx, f.ns, c.ID, "", "")
	require.NoError(t, err)
	require.Len(t, full.Entries, 4)
	assert.True(t, full.OpeningBalance.IsZero())
	assert.True(t, full.ClosingBalance.Equal(f.balance(c.ID)))
	assert.Equal(t, service.EntryPayment, full.Entries[1].Kind)
	assert.Equal(t, "CASH R-1", full.Entries[1].Reference)
	assert.True(t, full.Entries[1].Balance.Equal(dec("600")))
	assert.True(t, full.Entries[2].Debit.IsZero(), "cash invoices do not move the balance")

	ranged, err := f.reports.Statement(f.ctx, f.ns, c.ID, "2024-02-01", "2024-02-28")
	require.NoError(t, err)
	require.Len(t, ranged.Entries, 1)
	assert.True(t, ranged.OpeningBalance.Equal(dec("600")))
	assert.True(t, ranged.ClosingBalance.Equal(dec("600")))

	_, err = f.reports.Statement(f.ctx, f.ns, "ghost", "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.reports.Statement(f.ctx, f.ns, c.ID, "01-02-2024", "")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestReportService_Dashboard(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")
	f.product("Widget", "10", "5", "Electronics")
	f.product("Bolt", "1", "0", "Hardware")
	f.product("Gizmo", "10", "50", "Electronics")
	f.product("Installation", "100", "0", "Services")

	for i := 0; i < 6; i++ {
		_, err := f.invoices.Create(f.ctx, f.ns, credit(c.ID, adHoc("a", "1", "100", "0")))
		require.NoError(t, err)
	}
	_, err := f.payments.Record(f.ctx, f.ns, service.PaymentInput{CustomerID: c.ID, Amount: dec("150")})
	require.NoError(t, err)

	d, err := f.reports.Dashboard(f.ctx, f.ns)
	require.NoError(t, err)
	assert.True(t, d.TotalRevenue.Equal(dec("600")))
	assert.Equal(t, 6, d.PendingInvoices)
	assert.True(t, d.OutstandingReceivables.Equal(dec("450")))
	assert.Equal(t, 1, d.CustomerCount)
	assert.Equal(t, 4, d.ProductCount)
	assert.Equal(t, 6, d.InvoiceCount)
	assert.Len(t, d.RecentInvoices, 5)
	require.Len(t, d.LowStock, 2)
	assert.Equal(t, "Bolt", d.LowStock[0].Name)
	assert.Equal(t, domain.StockStatusOutOfStock, d.LowStock[0].StockStatus)
	assert.Equal(t, domain.StockStatusLowStock, d.LowStock[1].StockStatus)
}

func TestReportService_Reconcile_FixesBalanceDrift(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")
	_, err := f.invoices.Create(f.ctx, f.ns, credit(c.ID, adHoc("a", "1", "1000", "0")))
	require.NoError(t, err)

	corrupt := f.balance(c.ID)
	got, err := f.customers.Get(f.ctx, f.ns, c.ID)
	require.NoError(t, err)
	got.Balance = dec("999")
	data, err := json.Marshal(got)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(f.ctx, f.ns.Collection(domain.CollectionCustomers), c.ID, data))

	report, err := f.reports.Reconcile(f.ctx, f.ns, false)
	require.NoError(t, err)
	require.Len(t, report.Drifts, 1)
	assert.True(t, report.Drifts[0].Stored.Equal(dec("999")))
	assert.True(t, report.Drifts[0].Expected.Equal(corrupt))
	assert.True(t, report.Drifts[0].Difference.Equal(dec("-1")))
	assert.True(t, f.balance(c.ID).Equal(dec("999")), "a dry run changes nothing")

	report, err = f.reports.Reconcile(f.ctx, f.ns, true)
	require.NoError(t, err)
	assert.True(t, report.Fixed)
	assert.Len(t, report.Drifts, 1)

	f.wire()
	assert.True(t, f.balance(c.ID).Equal(dec("1000")))
	report, err = f.reports.Reconcile(f.ctx, f.ns, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts)
}

func TestReportService_Reconcile_FlagsTamperedInvoice(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")
	inv, err := f.invoices.Create(f.ctx, f.ns, cash(c.ID, adHoc("a", "2", "50", "18")))
	require.NoError(t, err)

	inv.Total = inv.Total.Add(dec("5"))
	data, err := json.Marshal(inv)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(f.ctx, f.ns.Collection(domain.CollectionInvoices), inv.ID, data))

	report, err := f.reports.Reconcile(f.ctx, f.ns, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts, "paid invoices do not affect balances")
	require.Len(t, report.Issues, 1)
	assert.Equal(t, inv.InvoiceNumber, report.Issues[0].InvoiceNumber)
	keys := make([]string, 0, len(report.Issues[0].Failures))
	for _, r := range report.Issues[0].Failures {
		keys = append(keys, r.RuleKey)
	}
	assert.Contains(t, keys, "math.total")
}
