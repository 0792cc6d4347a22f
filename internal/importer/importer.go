// Package importer reads catalog and customer masters from spreadsheets and Tally exports.
package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductRecord is one product row found in an import file.
type ProductRecord struct {
	Name     string
	Price    decimal.Decimal
	Stock    decimal.Decimal
	Category string
	HSN      string
	GSTRate  decimal.Decimal
}

// CustomerRecord is one customer row found in an import file.
type CustomerRecord struct {
	Name    string
	Company string
	Email   string
	Phone   string
	Address string
	State   string
	GSTIN   string
}

// Batch is everything parsed from one file.
type Batch struct {
	Products  []ProductRecord
	Customers []CustomerRecord
}

// Options controls which tax fields are kept.
type Options struct {
	// GSTEnabled keeps HSN, GST rate, state and GSTIN. When false they are dropped.
	GSTEnabled bool
}

// number parses a numeric cell leniently: blanks and garbage are zero.
func number(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (o Options) product(p ProductRecord) ProductRecord {
	if !o.GSTEnabled {
		p.HSN = ""
		p.GSTRate = decimal.Zero
	}
	return p
}

func (o Options) customer(c CustomerRecord) CustomerRecord {
	if !o.GSTEnabled {
		c.State = ""
		c.GSTIN = ""
	}
	return c
}
