// Package ledger keeps customer balances in step with credit invoices and payments.
//
// A customer's balance always equals the total of its PENDING invoices minus the
// payments it has made. Every invoice or payment transition is expressed as a
// Delta, which is applied to the in-memory customers before anything is persisted.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

// Delta holds signed balance adjustments keyed by customer id.
type Delta map[string]decimal.Decimal

func (d Delta) add(customerID string, amount decimal.Decimal) {
	d[customerID] = d[customerID].Add(amount)
}

// Effect is what an invoice contributes to its customer's balance while it exists.
// Cash sales never touch the ledger.
func Effect(inv *domain.Invoice) decimal.Decimal {
	if inv == nil || !inv.IsPending() {
		return decimal.Zero
	}
	return inv.Total
}

// ForCreate returns the adjustment for a newly created invoice.
func ForCreate(inv *domain.Invoice) Delta {
	d := Delta{}
	if inv.IsPending() {
		d.add(inv.CustomerID, Effect(inv))
	}
	return d
}

// ForUpdate reverses the old invoice and then applies the new one.
// When the customer changes both customers appear in the delta.
func ForUpdate(oldInv, newInv *domain.Invoice) Delta {
	d := Delta{}
	if oldInv.IsPending() {
		d.add(oldInv.CustomerID, Effect(oldInv).Neg())
	}
	if newInv.IsPending() {
		d.add(newInv.CustomerID, Effect(newInv))
	}
	return d
}

// ForDelete undoes exactly what ForCreate applied.
func ForDelete(inv *domain.Invoice) Delta {
	d := Delta{}
	if inv.IsPending() {
		d.add(inv.CustomerID, Effect(inv).Neg())
	}
	return d
}

// ForPayment reduces the balance by the payment amount, regardless of invoice history.
func ForPayment(p *domain.Payment) Delta {
	return Delta{p.CustomerID: p.Amount.Neg()}
}

// ForPaymentReversal restores the amount of a removed payment.
func ForPaymentReversal(p *domain.Payment) Delta {
	return Delta{p.CustomerID: p.Amount}
}

// Apply adds each adjustment to the matching customer and returns the customers it
// touched, ordered by id. Customers that no longer exist are skipped silently.
func (d Delta) Apply(customers map[string]*domain.Customer) []*domain.Customer {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	touched := make([]*domain.Customer, 0, len(ids))
	for _, id := range ids {
		c, ok := customers[id]
		if !ok {
			continue
		}
		c.Balance = c.Balance.Add(d[id])
		touched = append(touched, c)
	}
	return touched
}

// Expected recomputes every customer's balance from scratch.
func Expected(invoices []*domain.Invoice, payments []*domain.Payment) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		if inv.IsPending() {
			out[inv.CustomerID] = out[inv.CustomerID].Add(inv.Total)
		}
	}
	for _, p := range payments {
		out[p.CustomerID] = out[p.CustomerID].Sub(p.Amount)
	}
	return out
}
