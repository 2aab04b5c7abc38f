package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Tolerance is the epsilon used for every balance comparison (two-decimal currency).
var Tolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether |a-b| < Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// IsNegligible reports whether |a| < Tolerance.
func IsNegligible(a decimal.Decimal) bool {
	return a.Abs().LessThan(Tolerance)
}

// DateRange is an inclusive calendar window. A zero From means "since inception".
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}
