// Package stock keeps product stock levels in step with invoice item quantities.
package stock

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

// DefaultExemptCategory is the product category that is never stock-tracked.
const DefaultExemptCategory = "Services"

// Policy configures which products are tracked and whether oversell is allowed.
type Policy struct {
	ExemptCategory string
	AllowNegative  bool
}

// Delta holds signed quantity adjustments keyed by product id.
type Delta map[string]decimal.Decimal

func (d Delta) add(productID string, qty decimal.Decimal) {
	if productID == "" {
		return
	}
	d[productID] = d[productID].Add(qty)
}

// ForCreate consumes the quantity of every item.
func ForCreate(items []domain.InvoiceItem) Delta {
	d := Delta{}
	for i := range items {
		d.add(items[i].ProductID, items[i].Quantity.Neg())
	}
	return d
}

// ForUpdate restores the old items and consumes the new ones, netted per product.
func ForUpdate(oldItems, newItems []domain.InvoiceItem) Delta {
	d := Delta{}
	for i := range oldItems {
		d.add(oldItems[i].ProductID, oldItems[i].Quantity)
	}
	for i := range newItems {
		d.add(newItems[i].ProductID, newItems[i].Quantity.Neg())
	}
	return d
}

// ForDelete restores the quantity of every item.
func ForDelete(items []domain.InvoiceItem) Delta {
	d := Delta{}
	for i := range items {
		d.add(items[i].ProductID, items[i].Quantity)
	}
	return d
}

// Change is one pending stock update.
type Change struct {
	Product  *domain.Product
	NewStock decimal.Decimal
}

// Plan is a validated set of stock changes that has not been applied yet.
type Plan []Change

// Reconciler turns deltas into plans according to its policy.
type Reconciler struct {
	policy Policy
}

// NewReconciler returns a Reconciler. An empty exempt category defaults to "Services".
func NewReconciler(policy Policy) *Reconciler {
	if policy.ExemptCategory == "" {
		policy.ExemptCategory = DefaultExemptCategory
	}
	return &Reconciler{policy: policy}
}

// Tracked reports whether the product's stock follows invoice quantities.
func (r *Reconciler) Tracked(p *domain.Product) bool {
	return p.Category != r.policy.ExemptCategory
}

// Plan resolves a delta against the catalog. Ad hoc items and exempt products are skipped.
// Without AllowNegative, consuming below zero fails with ErrInsufficientStock.
func (r *Reconciler) Plan(products map[string]*domain.Product, d Delta) (Plan, error) {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	plan := make(Plan, 0, len(ids))
	for _, id := range ids {
		p, ok := products[id]
		if !ok || !r.Tracked(p) {
			continue
		}
		next := p.Stock.Add(d[id])
		if !r.policy.AllowNegative && d[id].IsNegative() && next.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s, needs %s", domain.ErrInsufficientStock, p.Name, p.Stock, d[id].Neg())
		}
		plan = append(plan, Change{Product: p, NewStock: next})
	}
	return plan, nil
}

// Commit writes the planned stock levels and returns the changed products.
func (p Plan) Commit() []*domain.Product {
	out := make([]*domain.Product, 0, len(p))
	for _, c := range p {
		c.Product.Stock = c.NewStock
		out = append(out, c.Product)
	}
	return out
}
