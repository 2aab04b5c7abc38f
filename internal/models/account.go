package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts table row.
type Account struct {
	AccountID        string          `db:"account_id"`
	Code             string          `db:"code"`
	Name             string          `db:"name"`
	AccountType      string          `db:"account_type"`
	Subtype          string          `db:"subtype"`
	NormalBalance    string          `db:"normal_balance"`
	ReportCategory   *string         `db:"report_category"` // Nullable
	CashFlowRole     string          `db:"cash_flow_role"`
	ParentAccountID  *string         `db:"parent_account_id"` // Nullable
	Level            int             `db:"level"`
	Description      *string         `db:"description"` // Nullable
	CurrencyCode     string          `db:"currency_code"`
	IsSystemAccount  bool            `db:"is_system_account"`
	AllowManualEntry bool            `db:"allow_manual_entry"`
	IsActive         bool            `db:"is_active"`
	Balance          decimal.Decimal `db:"balance"` // Cached, maintained by the poster
	Version          int64           `db:"version"`
	AuditFields
}
