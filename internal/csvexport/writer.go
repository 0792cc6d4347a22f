// Package csvexport renders invoice registers and customer statements as CSV.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
	"billflow/internal/service"
	"billflow/internal/validator/invoice"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// registerColumns is the invoice register header row.
var registerColumns = []string{
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"Customer Name",
	"Customer GSTIN",
	"Customer State",
	"Customer State Code",
	"Tax Type",
	"Status",
	"Sale Mode",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Total",
	"Line Item Count",
	"Created At",
}

var statementColumns = []string{"Date", "Type", "Reference", "Status", "Debit", "Credit", "Balance"}

// Writer wraps csv.Writer for exporting billing data.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteRegisterHeader writes the invoice register header row.
func (w *Writer) WriteRegisterHeader() error {
	return w.csv.Write(registerColumns)
}

// WriteInvoices writes one register row per invoice.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatement writes a customer statement: header, opening balance, entries, closing balance.
func (w *Writer) WriteStatement(st *service.Statement) error {
	if err := w.csv.Write(statementColumns); err != nil {
		return err
	}
	if err := w.csv.Write([]string{st.From, "OPENING", "", "", "", "", formatMoney(st.OpeningBalance)}); err != nil {
		return err
	}
	for _, e := range st.Entries {
		row := []string{e.Date, e.Kind, e.Reference, e.Status, formatMoney(e.Debit), formatMoney(e.Credit), formatMoney(e.Balance)}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return w.csv.Write([]string{st.To, "CLOSING", "", "", "", "", formatMoney(st.ClosingBalance)})
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.Invoice) []string {
	return []string{
		inv.InvoiceNumber,
		inv.Date,
		inv.DueDate,
		inv.CustomerName,
		inv.CustomerGSTIN,
		inv.CustomerState,
		invoice.StateCode(inv.CustomerState),
		string(inv.TaxType),
		string(inv.Status),
		string(inv.SaleMode),
		formatMoney(inv.Subtotal),
		formatMoney(inv.TotalCGST),
		formatMoney(inv.TotalSGST),
		formatMoney(inv.TotalIGST),
		formatMoney(inv.Total),
		strconv.Itoa(len(inv.Items)),
		inv.CreatedAt.Format(time.RFC3339),
	}
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.csv.
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), time.Now().Format(domain.DateLayout))
}
