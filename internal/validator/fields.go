package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"

	"billflow/internal/domain"
	"billflow/internal/validator/invoice"
)

// TagName is the struct tag read by both gin binding and New.
const TagName = "binding"

// RegisterFieldRules adds the gstin, hsn and isodate tags to v.
func RegisterFieldRules(v *playground.Validate) error {
	rules := map[string]playground.Func{
		"gstin": func(fl playground.FieldLevel) bool {
			return invoice.ValidGSTIN(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
		},
		"hsn": func(fl playground.FieldLevel) bool {
			return invoice.ValidHSN(strings.TrimSpace(fl.Field().String()))
		},
		"isodate": func(fl playground.FieldLevel) bool {
			_, err := time.Parse(domain.DateLayout, fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %s: %w", tag, err)
		}
	}
	return nil
}

// New returns a validator reading binding tags with the field rules registered.
func New() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.SetTagName(TagName)
	if err := RegisterFieldRules(v); err != nil {
		panic(err)
	}
	return v
}

// Describe converts validator errors into a domain.ErrValidation naming each failed field.
// Other errors are returned unchanged.
func Describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(parts, "; "))
}
