package validator

import (
	"context"
	"sort"

	"billflow/internal/domain"
	"billflow/internal/validator/invoice"
)

// Registry maps rule keys to Rule implementations.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// NewDefaultRegistry creates a Registry holding BuiltinRules.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range BuiltinRules() {
		r.Register(rule)
	}
	return r
}

// Register adds a rule to the registry.
func (r *Registry) Register(rule Rule) {
	r.rules[rule.RuleKey()] = rule
}

// Get returns the rule for a given key, or nil if not found.
func (r *Registry) Get(key string) Rule {
	return r.rules[key]
}

// All returns all registered rules ordered by key.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleKey() < out[j].RuleKey() })
	return out
}

// Failures runs every rule and returns only the failed results.
func (r *Registry) Failures(ctx context.Context, inv *domain.Invoice) []invoice.Result {
	var failed []invoice.Result
	for _, rule := range r.All() {
		for _, res := range rule.Validate(ctx, inv) {
			if !res.Passed {
				failed = append(failed, res)
			}
		}
	}
	return failed
}
