package importer_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/importer"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

const tallyExport = `<?xml version="1.0"?>
<ENVELOPE>
  <BODY>
    <TALLYMESSAGE>
      <ITEM><NAME>Steel Rod</NAME><HSNCODE>7214</HSNCODE><GSTRATE>18</GSTRATE></ITEM>
      <ITEM NAME="Copper Wire"><GSTRATE>12</GSTRATE></ITEM>
      <ITEM><HSNCODE>0000</HSNCODE></ITEM>
      <LEDGER><NAME>Sales</NAME></LEDGER>
      <LEDGER><NAME>Mehta &amp; Sons</NAME><ADDRESS>Surat</ADDRESS><STATE>Gujarat</STATE>
        <GSTIN>24aapfu0939f1zv</GSTIN><PHONE>9000000001</PHONE><EMAIL>mehta@example.com</EMAIL></LEDGER>
      <LEDGER><NAME>Tax</NAME></LEDGER>
    </TALLYMESSAGE>
  </BODY>
</ENVELOPE>`

func TestParseTally(t *testing.T) {
	batch, err := importer.ParseTally(strings.NewReader(tallyExport), importer.Options{GSTEnabled: true})
	require.NoError(t, err)

	require.Len(t, batch.Products, 2)
	rod := batch.Products[0]
	assert.Equal(t, "Steel Rod", rod.Name)
	assert.Equal(t, importer.TallyItemCategory, rod.Category)
	assert.Equal(t, "7214", rod.HSN)
	assert.True(t, rod.GSTRate.Equal(dec("18")))
	assert.True(t, rod.Price.IsZero())
	assert.True(t, rod.Stock.IsZero())
	assert.Equal(t, "Copper Wire", batch.Products[1].Name)

	require.Len(t, batch.Customers, 1)
	c := batch.Customers[0]
	assert.Equal(t, "Mehta & Sons", c.Name)
	assert.Equal(t, "Surat", c.Address)
	assert.Equal(t, "Gujarat", c.State)
	assert.Equal(t, "24AAPFU0939F1ZV", c.GSTIN)
	assert.Equal(t, "9000000001", c.Phone)
	assert.Equal(t, "mehta@example.com", c.Email)
	assert.Empty(t, c.Company)
}

func TestParseTally_GSTDisabled(t *testing.T) {
	batch, err := importer.ParseTally(strings.NewReader(tallyExport), importer.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, batch.Products)
	assert.Empty(t, batch.Products[0].HSN)
	assert.True(t, batch.Products[0].GSTRate.IsZero())
	assert.Empty(t, batch.Customers[0].GSTIN)
	assert.Empty(t, batch.Customers[0].State)
}

func TestParseTally_Malformed(t *testing.T) {
	_, err := importer.ParseTally(strings.NewReader("<ENVELOPE><ITEM></LEDGER>"), importer.Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidImport)
}
