package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// IncomeStatement reports revenue and expenses dated within [from, to].
	IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatement, error)

	// BalanceSheet reports cumulative balances from inception through asOf.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)

	// CashFlowStatement reports indirect-method cash flows within [from, to].
	CashFlowStatement(ctx context.Context, from, to time.Time) (*domain.CashFlowStatement, error)

	// FinancialSummary runs the three statements for the period and derives ratios.
	FinancialSummary(ctx context.Context, from, to time.Time) (*domain.FinancialSummary, error)
}
