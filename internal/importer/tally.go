package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

// TallyItemCategory is assigned to every stock item imported from Tally.
const TallyItemCategory = "Imported"

// ledgers that are accounting heads rather than parties.
var skippedLedgers = map[string]bool{
	"Sales":    true,
	"Purchase": true,
	"Duty":     true,
	"Tax":      true,
}

type tallyItem struct {
	NameAttr string `xml:"NAME,attr"`
	Name     string `xml:"NAME"`
	HSN      string `xml:"HSNCODE"`
	GSTRate  string `xml:"GSTRATE"`
}

type tallyLedger struct {
	NameAttr string `xml:"NAME,attr"`
	Name     string `xml:"NAME"`
	Address  string `xml:"ADDRESS"`
	State    string `xml:"STATE"`
	GSTIN    string `xml:"GSTIN"`
	Phone    string `xml:"PHONE"`
	Email    string `xml:"EMAIL"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ParseTally reads ITEM and LEDGER masters from a Tally XML export, wherever
// they are nested. Items get zero price and stock.
func ParseTally(r io.Reader, opts Options) (*Batch, error) {
	dec := xml.NewDecoder(r)

	batch := &Batch{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "ITEM":
			var it tallyItem
			if err := dec.DecodeElement(&it, &se); err != nil {
				return nil, fmt.Errorf("%w: ITEM: %v", domain.ErrInvalidImport, err)
			}
			name := firstNonEmpty(it.Name, it.NameAttr)
			if name == "" {
				continue
			}
			batch.Products = append(batch.Products, opts.product(ProductRecord{
				Name:     name,
				Price:    decimal.Zero,
				Stock:    decimal.Zero,
				Category: TallyItemCategory,
				HSN:      strings.TrimSpace(it.HSN),
				GSTRate:  number(it.GSTRate),
			}))
		case "LEDGER":
			var l tallyLedger
			if err := dec.DecodeElement(&l, &se); err != nil {
				return nil, fmt.Errorf("%w: LEDGER: %v", domain.ErrInvalidImport, err)
			}
			name := firstNonEmpty(l.Name, l.NameAttr)
			if name == "" || skippedLedgers[name] {
				continue
			}
			batch.Customers = append(batch.Customers, opts.customer(CustomerRecord{
				Name:    name,
				Email:   strings.TrimSpace(l.Email),
				Phone:   strings.TrimSpace(l.Phone),
				Address: strings.TrimSpace(l.Address),
				State:   strings.TrimSpace(l.State),
				GSTIN:   strings.ToUpper(strings.TrimSpace(l.GSTIN)),
			}))
		}
	}
	return batch, nil
}
