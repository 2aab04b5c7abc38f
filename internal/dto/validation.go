package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format used by every query parameter and report.
const DateLayout = "2006-01-02"

// RegisterValidators installs the custom binding tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
		return domain.ValidAccountCode(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register accountcode validator: %w", err)
	}
	return nil
}

// ParseOptionalDate parses a YYYY-MM-DD string, returning nil for an empty string.
func ParseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}
