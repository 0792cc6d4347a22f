package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"billflow/internal/domain"
)

var mathTolerance = decimal.New(1, -2)

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(mathTolerance)
}

func mathResult(ruleKey string, passed bool, fieldPath string, expected, actual decimal.Decimal, ruleName string) Result {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)", ruleName, fieldPath, expected.StringFixed(2), actual.StringFixed(2))
	}
	return Result{
		RuleKey: ruleKey, Severity: SeverityError, Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected.StringFixed(2), ActualValue: actual.StringFixed(2), Message: msg,
	}
}

// MathCheck recomputes line and invoice aggregates from the stored fields.
func MathCheck(inv *domain.Invoice) []Result {
	results := make([]Result, 0, 2*len(inv.Items)+2)
	subtotal, total := decimal.Zero, decimal.Zero

	for i := range inv.Items {
		item := &inv.Items[i]
		base := item.Quantity.Mul(item.Rate)
		fp := fmt.Sprintf("items[%d].base_amount", i)
		results = append(results, mathResult("math.item.base_amount", approxEqual(item.BaseAmount, base), fp, base, item.BaseAmount, "Math: Item Base Amount"))

		lineTotal := item.BaseAmount.Add(item.CGSTAmount).Add(item.SGSTAmount).Add(item.IGSTAmount)
		fp = fmt.Sprintf("items[%d].total_amount", i)
		results = append(results, mathResult("math.item.total", approxEqual(item.TotalAmount, lineTotal), fp, lineTotal, item.TotalAmount, "Math: Item Total"))

		subtotal = subtotal.Add(item.BaseAmount)
		total = total.Add(item.TotalAmount)
	}

	results = append(results,
		mathResult("math.subtotal", approxEqual(inv.Subtotal, subtotal), "subtotal", subtotal, inv.Subtotal, "Math: Subtotal"),
		mathResult("math.total", approxEqual(inv.Total, total), "total", total, inv.Total, "Math: Grand Total"),
	)
	return results
}
