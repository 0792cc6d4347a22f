package tax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/tax"
)

func TestHSNSummary_GroupsByCode(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})
	inv := &domain.Invoice{Items: []domain.InvoiceItem{
		{HSN: "8471", Quantity: dec("2"), Rate: dec("500"), GSTRate: dec("18")},
		{Quantity: dec("1"), Rate: dec("100"), GSTRate: dec("5")},
		{HSN: "8471", Quantity: dec("1"), Rate: dec("1000"), GSTRate: dec("18")},
		{HSN: "", Quantity: dec("3"), Rate: dec("10"), GSTRate: dec("0")},
	}}
	require.NoError(t, c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{State: "Delhi"}))

	rows := tax.HSNSummary(inv.Items)

	require.Len(t, rows, 2)
	assert.Equal(t, "8471", rows[0].HSN)
	assertDec(t, "3", rows[0].Quantity, "qty")
	assertDec(t, "2000", rows[0].TaxableValue, "taxable")
	assertDec(t, "180", rows[0].CGST, "cgst")
	assertDec(t, "180", rows[0].SGST, "sgst")
	assertDec(t, "360", rows[0].TotalTax(), "total tax")

	assert.Equal(t, tax.UnclassifiedHSN, rows[1].HSN)
	assertDec(t, "4", rows[1].Quantity, "qty")
	assertDec(t, "130", rows[1].TaxableValue, "taxable")
	assertDec(t, "2.5", rows[1].CGST, "cgst")
}

func TestHSNSummary_DoesNotChangeTotals(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})
	inv := scenarioInvoice()
	require.NoError(t, c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{State: "Punjab"}))

	rows := tax.HSNSummary(inv.Items)

	require.Len(t, rows, 1)
	assertDec(t, "2000", rows[0].TaxableValue, "taxable")
	assertDec(t, "360", rows[0].IGST, "igst")
	assertDec(t, "2360", inv.Total, "total")
}

func TestHSNSummary_Empty(t *testing.T) {
	assert.Empty(t, tax.HSNSummary(nil))
}
