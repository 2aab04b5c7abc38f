package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportLine is one account's amount within a financial statement.
type ReportLine struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Subtype     AccountSubtype  `json:"subtype"`
	Amount      decimal.Decimal `json:"amount"`
}

// ReportGroup gathers lines of a single subtype.
type ReportGroup struct {
	Subtype AccountSubtype  `json:"subtype"`
	Lines   []ReportLine    `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

// ReportSection is a top-level block of a statement (revenue, assets, ...).
type ReportSection struct {
	Groups []ReportGroup   `json:"groups"`
	Total  decimal.Decimal `json:"total"`
}

// IncomeStatement reports revenue and expenses for a period.
type IncomeStatement struct {
	Period        DateRange       `json:"period"`
	Revenue       ReportSection   `json:"revenue"`
	Expenses      ReportSection   `json:"expenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	ProfitMargin  decimal.Decimal `json:"profitMargin"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	CurrencyCode  string          `json:"currencyCode"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

// BalanceSheet reports cumulative positions as of a date.
type BalanceSheet struct {
	AsOf                      time.Time       `json:"asOf"`
	Assets                    ReportSection   `json:"assets"`
	Liabilities               ReportSection   `json:"liabilities"`
	Equity                    ReportSection   `json:"equity"`
	CurrentEarnings           decimal.Decimal `json:"currentEarnings"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
	Difference                decimal.Decimal `json:"difference"`
	IsBalanced                bool            `json:"isBalanced"`
	GeneratedAt               time.Time       `json:"generatedAt"`
	CurrencyCode              string          `json:"currencyCode"`
}

// SubtypeTotal returns the total of the given subtype across the section, zero when absent.
func (s ReportSection) SubtypeTotal(subtype AccountSubtype) decimal.Decimal {
	for _, g := range s.Groups {
		if g.Subtype == subtype {
			return g.Total
		}
	}
	return decimal.Zero
}

// CashFlowItem is one line in a cash flow section.
type CashFlowItem struct {
	Description string          `json:"description"`
	AccountID   string          `json:"accountID,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// CashFlowSection is operating, investing or financing activity.
type CashFlowSection struct {
	Items []CashFlowItem  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Add appends an item unless its amount is negligible.
func (s *CashFlowSection) Add(description, accountID string, amount decimal.Decimal) {
	if IsNegligible(amount) {
		return
	}
	s.Items = append(s.Items, CashFlowItem{Description: description, AccountID: accountID, Amount: amount})
	s.Total = s.Total.Add(amount)
}

// CashFlowStatement is an indirect-method cash flow statement.
type CashFlowStatement struct {
	Period            DateRange       `json:"period"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	Operating         CashFlowSection `json:"operating"`
	Investing         CashFlowSection `json:"investing"`
	Financing         CashFlowSection `json:"financing"`
	NetCashFlow       decimal.Decimal `json:"netCashFlow"`
	BeginningCash     decimal.Decimal `json:"beginningCash"`
	EndingCash        decimal.Decimal `json:"endingCash"`
	Reconciles        bool            `json:"reconciles"`
	UnclassifiedDelta decimal.Decimal `json:"unclassifiedDelta"`
	GeneratedAt       time.Time       `json:"generatedAt"`
	CurrencyCode      string          `json:"currencyCode"`
}

// FinancialRatios are derived from the three statements.
type FinancialRatios struct {
	CurrentRatio   decimal.Decimal `json:"currentRatio"`
	DebtToEquity   decimal.Decimal `json:"debtToEquity"`
	ReturnOnAssets decimal.Decimal `json:"returnOnAssets"`
	ProfitMargin   decimal.Decimal `json:"profitMargin"`
}

// FinancialSummary bundles the statements for a period with their ratios.
type FinancialSummary struct {
	Period          DateRange         `json:"period"`
	IncomeStatement IncomeStatement   `json:"incomeStatement"`
	BalanceSheet    BalanceSheet      `json:"balanceSheet"`
	CashFlow        CashFlowStatement `json:"cashFlow"`
	Ratios          FinancialRatios   `json:"ratios"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

// AccountPeriodBalance is an account with debit/credit sums over a window.
// Used as the raw input for every statement.
type AccountPeriodBalance struct {
	Account Account         `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// Balance returns the amount on the account's normal side.
func (b AccountPeriodBalance) Balance() decimal.Decimal {
	return b.Account.SignedDelta(b.Debit, b.Credit)
}
