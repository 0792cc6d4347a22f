// Package validator holds the integrity rules run over stored invoices and the
// field-level tags used when binding request payloads.
package validator

import (
	"context"

	"billflow/internal/domain"
	"billflow/internal/validator/invoice"
)

// Rule is a single integrity check over a stored invoice.
type Rule interface {
	Validate(ctx context.Context, inv *domain.Invoice) []invoice.Result
	RuleKey() string
}

type ruleFunc struct {
	key string
	fn  func(inv *domain.Invoice) []invoice.Result
}

func (r ruleFunc) Validate(_ context.Context, inv *domain.Invoice) []invoice.Result {
	return r.fn(inv)
}

func (r ruleFunc) RuleKey() string { return r.key }

// BuiltinRules returns the integrity rules shipped with the service.
func BuiltinRules() []Rule {
	return []Rule{
		ruleFunc{key: "math", fn: invoice.MathCheck},
		ruleFunc{key: "xf.tax_type", fn: invoice.TaxTypeCheck},
		ruleFunc{key: "xf.customer.gstin_state", fn: func(inv *domain.Invoice) []invoice.Result {
			return []invoice.Result{invoice.GSTINStateCheck("customer", inv.CustomerGSTIN, inv.CustomerState)}
		}},
	}
}
