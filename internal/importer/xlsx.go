package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"billflow/internal/domain"
)

// Sheet names read from a workbook.
const (
	ProductsSheet  = "Products"
	CustomersSheet = "Customers"
)

// header maps lower-cased column titles to their index.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, title := range row {
		key := strings.ToLower(strings.TrimSpace(title))
		if _, dup := h[key]; !dup && key != "" {
			h[key] = i
		}
	}
	return h
}

// get returns the first non-empty value among the aliased columns.
func (h header) get(row []string, aliases ...string) string {
	for _, a := range aliases {
		i, ok := h[strings.ToLower(a)]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(cellVal(row, i)); v != "" {
			return v
		}
	}
	return ""
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// ParseWorkbook reads the Products and Customers sheets of an xlsx workbook.
// Either sheet may be missing; rows without a name are skipped.
func ParseWorkbook(r io.Reader, opts Options) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	defer func() { _ = f.Close() }()

	batch := &Batch{}
	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	if sheets[ProductsSheet] {
		rows, err := f.GetRows(ProductsSheet)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidImport, ProductsSheet, err)
		}
		batch.Products = parseProductRows(rows, opts)
	}
	if sheets[CustomersSheet] {
		rows, err := f.GetRows(CustomersSheet)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidImport, CustomersSheet, err)
		}
		batch.Customers = parseCustomerRows(rows, opts)
	}
	return batch, nil
}

func parseProductRows(rows [][]string, opts Options) []ProductRecord {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	var out []ProductRecord
	for _, row := range rows[1:] {
		name := h.get(row, "Product Name", "Name")
		if name == "" {
			continue
		}
		out = append(out, opts.product(ProductRecord{
			Name:     name,
			Price:    number(h.get(row, "Price", "Rate")),
			Stock:    number(h.get(row, "Stock", "Quantity")),
			Category: h.get(row, "Category"),
			HSN:      h.get(row, "HSN", "HSN Code"),
			GSTRate:  number(h.get(row, "GST Rate", "GSTRATE")),
		}))
	}
	return out
}

func parseCustomerRows(rows [][]string, opts Options) []CustomerRecord {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	var out []CustomerRecord
	for _, row := range rows[1:] {
		name := h.get(row, "Customer Name", "Name")
		if name == "" {
			continue
		}
		out = append(out, opts.customer(CustomerRecord{
			Name:    name,
			Company: h.get(row, "Company"),
			Email:   h.get(row, "Email"),
			Phone:   h.get(row, "Phone", "Mobile"),
			Address: h.get(row, "Address"),
			State:   h.get(row, "State"),
			GSTIN:   strings.ToUpper(h.get(row, "GSTIN")),
		}))
	}
	return out
}
