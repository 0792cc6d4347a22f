package invoice

import (
	"fmt"

	"billflow/internal/domain"
)

// GSTINStateCheck compares the state prefix of a GSTIN with the named state.
// Missing values or unknown state names pass.
func GSTINStateCheck(party, gstin, state string) Result {
	fieldPath := fmt.Sprintf("%s.gstin", party)
	code := StateCode(state)
	if gstin == "" || code == "" {
		return Result{
			RuleKey: "xf." + party + ".gstin_state", Severity: SeverityWarning, Passed: true, FieldPath: fieldPath,
			Message: fmt.Sprintf("Cross-field: %s GSTIN-State Match: fields missing, skipping", party),
		}
	}
	if len(gstin) < 2 {
		return Result{
			RuleKey: "xf." + party + ".gstin_state", Severity: SeverityWarning, FieldPath: fieldPath,
			ExpectedValue: fmt.Sprintf("GSTIN[0:2] == %s", code), ActualValue: gstin,
			Message: fmt.Sprintf("Cross-field: %s GSTIN-State Match: GSTIN too short", party),
		}
	}
	passed := gstin[:2] == code
	msg := fmt.Sprintf("Cross-field: %s GSTIN-State Match: GSTIN state code matches", party)
	if !passed {
		msg = fmt.Sprintf("Cross-field: %s GSTIN-State Match: GSTIN prefix %s does not match %s (%s)", party, gstin[:2], state, code)
	}
	return Result{
		RuleKey: "xf." + party + ".gstin_state", Severity: SeverityWarning, Passed: passed, FieldPath: fieldPath,
		ExpectedValue: fmt.Sprintf("GSTIN[0:2] == %s", code), ActualValue: gstin[:2], Message: msg,
	}
}

// TaxTypeCheck verifies that every line uses only the components its tax type allows.
func TaxTypeCheck(inv *domain.Invoice) []Result {
	results := make([]Result, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		fp := fmt.Sprintf("items[%d]", i)
		var passed bool
		var expected string
		if inv.TaxType == domain.TaxTypeIntraState {
			passed = item.IGSTAmount.IsZero()
			expected = "IGST=0"
		} else {
			passed = item.CGSTAmount.IsZero() && item.SGSTAmount.IsZero()
			expected = "CGST=0, SGST=0"
		}
		msg := fmt.Sprintf("Cross-field: Tax Type: %s matches %s", fp, inv.TaxType)
		if !passed {
			msg = fmt.Sprintf("Cross-field: Tax Type: %s mixes components for %s", fp, inv.TaxType)
		}
		results = append(results, Result{
			RuleKey: "xf.tax_type", Severity: SeverityError, Passed: passed, FieldPath: fp,
			ExpectedValue: expected,
			ActualValue:   fmt.Sprintf("CGST=%s, SGST=%s, IGST=%s", item.CGSTAmount.StringFixed(2), item.SGSTAmount.StringFixed(2), item.IGSTAmount.StringFixed(2)),
			Message:       msg,
		})
	}
	return results
}
