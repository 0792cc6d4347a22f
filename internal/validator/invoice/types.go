package invoice

// Severity ranks how serious a failed check is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of one check against one field.
type Result struct {
	RuleKey       string   `json:"rule_key"`
	Severity      Severity `json:"severity"`
	Passed        bool     `json:"passed"`
	FieldPath     string   `json:"field_path"`
	ExpectedValue string   `json:"expected_value,omitempty"`
	ActualValue   string   `json:"actual_value,omitempty"`
	Message       string   `json:"message"`
}
