package importer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billflow/internal/domain"
	"billflow/internal/importer"
)

func workbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"Products": {
			{"Product Name", "Rate", "Quantity", "Category", "HSN Code", "GST Rate"},
			{"Widget", "250.50", "12", "Hardware", "8471", "18"},
			{"", "99", "1", "", "", ""},
			{"Gadget", "", "", "", "", ""},
		},
		"Customers": {
			{"Name", "Company", "Email", "Mobile", "Address", "State", "GSTIN"},
			{"Asha", "Asha Traders", "asha@example.com", "98765 43210", "Pune", "Maharashtra", "27aapfu0939f1zv"},
		},
	})

	batch, err := importer.ParseWorkbook(buf, importer.Options{GSTEnabled: true})
	require.NoError(t, err)

	require.Len(t, batch.Products, 2)
	widget := batch.Products[0]
	assert.Equal(t, "Widget", widget.Name)
	assert.True(t, widget.Price.Equal(dec("250.5")))
	assert.True(t, widget.Stock.Equal(dec("12")))
	assert.Equal(t, "Hardware", widget.Category)
	assert.Equal(t, "8471", widget.HSN)
	assert.True(t, widget.GSTRate.Equal(dec("18")))
	assert.True(t, batch.Products[1].Price.IsZero())

	require.Len(t, batch.Customers, 1)
	c := batch.Customers[0]
	assert.Equal(t, "Asha", c.Name)
	assert.Equal(t, "98765 43210", c.Phone)
	assert.Equal(t, "Maharashtra", c.State)
	assert.Equal(t, "27AAPFU0939F1ZV", c.GSTIN)
}

func TestParseWorkbook_GSTDisabledDropsTaxFields(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{
		"Products":  {{"Name", "Price", "HSN", "GSTRATE"}, {"Widget", "10", "8471", "12"}},
		"Customers": {{"Customer Name", "State", "GSTIN"}, {"Asha", "Goa", "30AAPFU0939F1ZV"}},
	})

	batch, err := importer.ParseWorkbook(buf, importer.Options{GSTEnabled: false})
	require.NoError(t, err)
	require.Len(t, batch.Products, 1)
	assert.Empty(t, batch.Products[0].HSN)
	assert.True(t, batch.Products[0].GSTRate.IsZero())
	require.Len(t, batch.Customers, 1)
	assert.Empty(t, batch.Customers[0].State)
	assert.Empty(t, batch.Customers[0].GSTIN)
}

func TestParseWorkbook_MissingSheets(t *testing.T) {
	buf := workbook(t, map[string][][]interface{}{"Other": {{"x"}}})
	batch, err := importer.ParseWorkbook(buf, importer.Options{})
	require.NoError(t, err)
	assert.Empty(t, batch.Products)
	assert.Empty(t, batch.Customers)
}

func TestParseWorkbook_NotAWorkbook(t *testing.T) {
	_, err := importer.ParseWorkbook(strings.NewReader("plain text"), importer.Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidImport)
}
