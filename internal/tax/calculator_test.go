package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/tax"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func item(qty, rate, gst string) domain.InvoiceItem {
	return domain.InvoiceItem{Quantity: dec(qty), Rate: dec(rate), GSTRate: dec(gst)}
}

func TestDetermineTaxType(t *testing.T) {
	tests := []struct {
		name     string
		supplier string
		customer string
		want     domain.TaxType
	}{
		{"same state", "Delhi", "Delhi", domain.TaxTypeIntraState},
		{"different state", "Delhi", "Maharashtra", domain.TaxTypeInterState},
		{"case sensitive", "Delhi", "delhi", domain.TaxTypeInterState},
		{"customer state missing", "Delhi", "", domain.TaxTypeInterState},
		{"supplier state missing", "", "Delhi", domain.TaxTypeInterState},
		{"both missing", "", "", domain.TaxTypeInterState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tax.DetermineTaxType(tt.supplier, tt.customer))
		})
	}
}

func TestCalculator_CalculateItem_IntraState(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})

	got := c.CalculateItem(item("1", "1000", "18"), domain.TaxTypeIntraState)

	assertDec(t, "1000", got.BaseAmount, "base")
	assertDec(t, "90", got.CGSTAmount, "cgst")
	assertDec(t, "90", got.SGSTAmount, "sgst")
	assertDec(t, "0", got.IGSTAmount, "igst")
	assertDec(t, "1180", got.TotalAmount, "total")
}

func TestCalculator_CalculateItem_InterState(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})

	got := c.CalculateItem(item("1", "1000", "18"), domain.TaxTypeInterState)

	assertDec(t, "0", got.CGSTAmount, "cgst")
	assertDec(t, "0", got.SGSTAmount, "sgst")
	assertDec(t, "180", got.IGSTAmount, "igst")
	assertDec(t, "1180", got.TotalAmount, "total")
}

func TestCalculator_CalculateItem_SplitMatchesFormula(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})
	rates := []string{"0", "5", "12", "18", "28", "0.25", "3"}
	bases := []struct{ qty, rate string }{{"1", "1000"}, {"3", "33.33"}, {"2.5", "199.99"}, {"7", "0.01"}}

	for _, r := range rates {
		for _, b := range bases {
			in := item(b.qty, b.rate, r)
			base := dec(b.qty).Mul(dec(b.rate))

			intra := c.CalculateItem(in, domain.TaxTypeIntraState)
			wantHalf := base.Mul(dec(r)).Div(decimal.NewFromInt(200))
			assertDec(t, wantHalf.String(), intra.CGSTAmount, "cgst "+r)
			assert.True(t, intra.CGSTAmount.Equal(intra.SGSTAmount))
			assert.True(t, intra.IGSTAmount.IsZero())

			inter := c.CalculateItem(in, domain.TaxTypeInterState)
			wantFull := base.Mul(dec(r)).Div(decimal.NewFromInt(100))
			assertDec(t, wantFull.String(), inter.IGSTAmount, "igst "+r)
			assert.True(t, inter.CGSTAmount.IsZero())
			assert.True(t, inter.SGSTAmount.IsZero())
		}
	}
}

func TestCalculator_CalculateItem_MissingFieldsAreZero(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})

	got := c.CalculateItem(domain.InvoiceItem{Description: "blank"}, domain.TaxTypeIntraState)

	assert.True(t, got.BaseAmount.IsZero())
	assert.True(t, got.TotalAmount.IsZero())
}

func TestCalculator_CalculateItem_NegativeValuesPassThrough(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})

	got := c.CalculateItem(item("-2", "100", "18"), domain.TaxTypeInterState)

	assertDec(t, "-200", got.BaseAmount, "base")
	assertDec(t, "-36", got.IGSTAmount, "igst")
	assertDec(t, "-236", got.TotalAmount, "total")
}

func TestCalculator_CalculateItem_GSTDisabled(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: false})

	got := c.CalculateItem(item("2", "500", "18"), domain.TaxTypeIntraState)

	assertDec(t, "1000", got.BaseAmount, "base")
	assert.True(t, got.CGSTAmount.IsZero())
	assert.True(t, got.IGSTAmount.IsZero())
	assertDec(t, "1000", got.TotalAmount, "total")
}

func scenarioInvoice() *domain.Invoice {
	return &domain.Invoice{
		Items: []domain.InvoiceItem{
			item("2", "500", "18"),
			item("1", "1000", "18"),
		},
	}
}

func TestCalculator_CalculateInvoice_SameState(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})
	inv := scenarioInvoice()

	err := c.CalculateInvoice(inv, tax.Party{State: "Delhi", GSTIN: "07AAAAA0000A1Z5"}, tax.Party{State: "Delhi"})
	require.NoError(t, err)

	assert.Equal(t, domain.TaxTypeIntraState, inv.TaxType)
	assert.Equal(t, "07AAAAA0000A1Z5", inv.SupplierGSTIN)
	assert.True(t, inv.GSTEnabled)
	assertDec(t, "2000", inv.Subtotal, "subtotal")
	assertDec(t, "180", inv.TotalCGST, "cgst")
	assertDec(t, "180", inv.TotalSGST, "sgst")
	assertDec(t, "0", inv.TotalIGST, "igst")
	assertDec(t, "2360", inv.Total, "total")
}

func TestCalculator_CalculateInvoice_DifferentState(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})
	inv := scenarioInvoice()

	err := c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{State: "Maharashtra"})
	require.NoError(t, err)

	assert.Equal(t, domain.TaxTypeInterState, inv.TaxType)
	assertDec(t, "0", inv.TotalCGST, "cgst")
	assertDec(t, "0", inv.TotalSGST, "sgst")
	assertDec(t, "360", inv.TotalIGST, "igst")
	assertDec(t, "2360", inv.Total, "total")
}

func TestCalculator_CalculateInvoice_AggregatesAreSums(t *testing.T) {
	c := tax.NewCalculator(tax.Config{GSTEnabled: true})
	inv := &domain.Invoice{Items: []domain.InvoiceItem{
		item("3", "99.5", "5"),
		item("1", "250", "0"),
		item("4", "12.75", "28"),
	}}

	require.NoError(t, c.CalculateInvoice(inv, tax.Party{State: "Goa"}, tax.Party{State: "Goa"}))

	sub, cgst, sgst, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range inv.Items {
		sub = sub.Add(it.BaseAmount)
		cgst = cgst.Add(it.CGSTAmount)
		sgst = sgst.Add(it.SGSTAmount)
		total = total.Add(it.TotalAmount)
	}
	assert.True(t, sub.Equal(inv.Subtotal))
	assert.True(t, cgst.Equal(inv.TotalCGST))
	assert.True(t, sgst.Equal(inv.TotalSGST))
	assert.True(t, total.Equal(inv.Total))
	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.TotalCGST).Add(inv.TotalSGST).Add(inv.TotalIGST)))
}

func TestCalculator_CalculateInvoice_GSTFlag(t *testing.T) {
	t.Run("all_zero_rates", func(t *testing.T) {
		c := tax.NewCalculator(tax.Config{GSTEnabled: true})
		inv := &domain.Invoice{Items: []domain.InvoiceItem{item("1", "100", "0")}}
		require.NoError(t, c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{State: "Delhi"}))
		assert.False(t, inv.GSTEnabled)
		assertDec(t, "100", inv.Total, "total")
	})

	t.Run("business_disabled", func(t *testing.T) {
		c := tax.NewCalculator(tax.Config{GSTEnabled: false})
		inv := scenarioInvoice()
		require.NoError(t, c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{State: "Delhi"}))
		assert.False(t, inv.GSTEnabled)
		assertDec(t, "2000", inv.Total, "total")
	})
}

func TestCalculator_CalculateInvoice_MissingStatePolicy(t *testing.T) {
	t.Run("inter_state_default", func(t *testing.T) {
		c := tax.NewCalculator(tax.Config{GSTEnabled: true})
		inv := scenarioInvoice()
		require.NoError(t, c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{}))
		assert.Equal(t, domain.TaxTypeInterState, inv.TaxType)
		assertDec(t, "360", inv.TotalIGST, "igst")
	})

	t.Run("reject", func(t *testing.T) {
		c := tax.NewCalculator(tax.Config{GSTEnabled: true, MissingState: tax.MissingStateReject})
		inv := scenarioInvoice()
		err := c.CalculateInvoice(inv, tax.Party{State: "Delhi"}, tax.Party{})
		assert.ErrorIs(t, err, domain.ErrStateRequired)
	})

	t.Run("reject_ignored_without_gst", func(t *testing.T) {
		c := tax.NewCalculator(tax.Config{GSTEnabled: false, MissingState: tax.MissingStateReject})
		inv := scenarioInvoice()
		assert.NoError(t, c.CalculateInvoice(inv, tax.Party{}, tax.Party{}))
	})
}
