package tax

import (
	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

// MissingStatePolicy decides what happens when the supplier or customer state is empty.
type MissingStatePolicy string

const (
	// MissingStateInterState treats an absent state as a different state (IGST applies).
	MissingStateInterState MissingStatePolicy = "inter_state"
	// MissingStateReject refuses to calculate GST without both states.
	MissingStateReject MissingStatePolicy = "reject"
)

// Config controls a Calculator.
type Config struct {
	// GSTEnabled is the business-wide switch. When false every item is taxed at zero.
	GSTEnabled   bool
	MissingState MissingStatePolicy
}

// Party is the tax-relevant view of a supplier or customer.
type Party struct {
	State string
	GSTIN string
}

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Calculator derives line and invoice level GST amounts.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a Calculator for the given configuration.
func NewCalculator(cfg Config) *Calculator {
	if cfg.MissingState == "" {
		cfg.MissingState = MissingStateInterState
	}
	return &Calculator{cfg: cfg}
}

// DetermineTaxType returns INTRA_STATE when both states are present and equal (case-sensitive),
// INTER_STATE otherwise.
func DetermineTaxType(supplierState, customerState string) domain.TaxType {
	if supplierState != "" && supplierState == customerState {
		return domain.TaxTypeIntraState
	}
	return domain.TaxTypeInterState
}

// CalculateItem fills the derived amounts of a single line for the given tax type.
// Nothing is rounded; missing numbers are zero values and so count as 0.
func (c *Calculator) CalculateItem(item domain.InvoiceItem, taxType domain.TaxType) domain.InvoiceItem {
	item.BaseAmount = item.Quantity.Mul(item.Rate)
	item.CGSTAmount = decimal.Zero
	item.SGSTAmount = decimal.Zero
	item.IGSTAmount = decimal.Zero

	rate := c.effectiveRate(item)
	if !rate.IsZero() {
		if taxType == domain.TaxTypeIntraState {
			half := item.BaseAmount.Mul(rate.Div(two)).Div(hundred)
			item.CGSTAmount = half
			item.SGSTAmount = half
		} else {
			item.IGSTAmount = item.BaseAmount.Mul(rate).Div(hundred)
		}
	}

	item.TotalAmount = item.BaseAmount.Add(item.CGSTAmount).Add(item.SGSTAmount).Add(item.IGSTAmount)
	return item
}

// CalculateInvoice computes tax type, every line and the invoice aggregates in place.
func (c *Calculator) CalculateInvoice(inv *domain.Invoice, supplier, customer Party) error {
	if c.cfg.MissingState == MissingStateReject && c.appliesGST(inv.Items) &&
		(supplier.State == "" || customer.State == "") {
		return domain.ErrStateRequired
	}

	inv.TaxType = DetermineTaxType(supplier.State, customer.State)
	inv.SupplierGSTIN = supplier.GSTIN
	inv.GSTEnabled = c.appliesGST(inv.Items)

	inv.Subtotal = decimal.Zero
	inv.TotalCGST = decimal.Zero
	inv.TotalSGST = decimal.Zero
	inv.TotalIGST = decimal.Zero
	inv.Total = decimal.Zero

	for i := range inv.Items {
		item := c.CalculateItem(inv.Items[i], inv.TaxType)
		inv.Items[i] = item
		inv.Subtotal = inv.Subtotal.Add(item.BaseAmount)
		inv.TotalCGST = inv.TotalCGST.Add(item.CGSTAmount)
		inv.TotalSGST = inv.TotalSGST.Add(item.SGSTAmount)
		inv.TotalIGST = inv.TotalIGST.Add(item.IGSTAmount)
		inv.Total = inv.Total.Add(item.TotalAmount)
	}
	return nil
}

func (c *Calculator) effectiveRate(item domain.InvoiceItem) decimal.Decimal {
	if !c.cfg.GSTEnabled {
		return decimal.Zero
	}
	return item.GSTRate
}

// appliesGST is true only when GST is enabled and at least one item carries a positive rate.
func (c *Calculator) appliesGST(items []domain.InvoiceItem) bool {
	if !c.cfg.GSTEnabled {
		return false
	}
	for i := range items {
		if items[i].GSTRate.IsPositive() {
			return true
		}
	}
	return false
}
