package tax

import (
	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

// UnclassifiedHSN is the bucket for items without an HSN code.
const UnclassifiedHSN = "N/A"

// HSNSummaryRow aggregates the lines sharing one HSN code.
type HSNSummaryRow struct {
	HSN          string          `json:"hsn"`
	Quantity     decimal.Decimal `json:"quantity"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
}

// TotalTax is the sum of all tax components in the row.
func (r HSNSummaryRow) TotalTax() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST)
}

// HSNSummary groups calculated items by HSN code, in order of first appearance.
// It is a reporting view and does not feed back into invoice totals.
func HSNSummary(items []domain.InvoiceItem) []HSNSummaryRow {
	index := make(map[string]int)
	var rows []HSNSummaryRow

	for i := range items {
		item := &items[i]
		code := item.HSN
		if code == "" {
			code = UnclassifiedHSN
		}
		pos, ok := index[code]
		if !ok {
			pos = len(rows)
			index[code] = pos
			rows = append(rows, HSNSummaryRow{HSN: code})
		}
		row := &rows[pos]
		row.Quantity = row.Quantity.Add(item.Quantity)
		row.TaxableValue = row.TaxableValue.Add(item.BaseAmount)
		row.CGST = row.CGST.Add(item.CGSTAmount)
		row.SGST = row.SGST.Add(item.SGSTAmount)
		row.IGST = row.IGST.Add(item.IGSTAmount)
	}
	return rows
}
