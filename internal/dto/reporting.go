package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/shopspring/decimal"
)

// MoneyResponse carries a raw amount and its display form.
type MoneyResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

func newMoney(amount decimal.Decimal, currency string) MoneyResponse {
	return MoneyResponse{Amount: amount, Formatted: utils.FormatMoney(amount, currency)}
}

// ReportLineResponse is one account inside a statement.
type ReportLineResponse struct {
	AccountID   string        `json:"accountID,omitempty"`
	AccountCode string        `json:"accountCode,omitempty"`
	Name        string        `json:"name"`
	Amount      MoneyResponse `json:"amount"`
}

// ReportGroupResponse gathers the lines of one subtype.
type ReportGroupResponse struct {
	Subtype string               `json:"subtype"`
	Lines   []ReportLineResponse `json:"lines"`
	Total   MoneyResponse        `json:"total"`
}

// ReportSectionResponse is a top-level statement block.
type ReportSectionResponse struct {
	Groups []ReportGroupResponse `json:"groups"`
	Total  MoneyResponse         `json:"total"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	FromDate     string                `json:"fromDate"`
	ToDate       string                `json:"toDate"`
	CurrencyCode string                `json:"currencyCode"`
	Revenue      ReportSectionResponse `json:"revenue"`
	Expenses     ReportSectionResponse `json:"expenses"`
	NetIncome    MoneyResponse         `json:"netIncome"`
	ProfitMargin decimal.Decimal       `json:"profitMargin"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf                      string                `json:"asOf"`
	CurrencyCode              string                `json:"currencyCode"`
	Assets                    ReportSectionResponse `json:"assets"`
	Liabilities               ReportSectionResponse `json:"liabilities"`
	Equity                    ReportSectionResponse `json:"equity"`
	TotalAssets               MoneyResponse         `json:"totalAssets"`
	TotalLiabilities          MoneyResponse         `json:"totalLiabilities"`
	TotalEquity               MoneyResponse         `json:"totalEquity"`
	TotalLiabilitiesAndEquity MoneyResponse         `json:"totalLiabilitiesAndEquity"`
	Difference                decimal.Decimal       `json:"difference"`
	IsBalanced                bool                  `json:"isBalanced"`
}

// CashFlowItemResponse is one cash flow line.
type CashFlowItemResponse struct {
	Description string        `json:"description"`
	AccountID   string        `json:"accountID,omitempty"`
	Amount      MoneyResponse `json:"amount"`
}

// CashFlowSectionResponse is operating, investing or financing activity.
type CashFlowSectionResponse struct {
	Items []CashFlowItemResponse `json:"items"`
	Total MoneyResponse          `json:"total"`
}

// CashFlowResponse represents the cash flow statement response
type CashFlowResponse struct {
	FromDate      string                  `json:"fromDate"`
	ToDate        string                  `json:"toDate"`
	CurrencyCode  string                  `json:"currencyCode"`
	NetIncome     MoneyResponse           `json:"netIncome"`
	Operating     CashFlowSectionResponse `json:"operating"`
	Investing     CashFlowSectionResponse `json:"investing"`
	Financing     CashFlowSectionResponse `json:"financing"`
	NetCashFlow   MoneyResponse           `json:"netCashFlow"`
	BeginningCash MoneyResponse           `json:"beginningCash"`
	EndingCash    MoneyResponse           `json:"endingCash"`
	Reconciles    bool                    `json:"reconciles"`
	Unclassified  MoneyResponse           `json:"unclassifiedDelta"` // Cash movement no role explains
}

// FinancialSummaryResponse bundles the headline numbers and ratios.
type FinancialSummaryResponse struct {
	FromDate       string          `json:"fromDate"`
	ToDate         string          `json:"toDate"`
	CurrencyCode   string          `json:"currencyCode"`
	TotalRevenue   MoneyResponse   `json:"totalRevenue"`
	TotalExpenses  MoneyResponse   `json:"totalExpenses"`
	NetIncome      MoneyResponse   `json:"netIncome"`
	TotalAssets    MoneyResponse   `json:"totalAssets"`
	TotalEquity    MoneyResponse   `json:"totalEquity"`
	NetCashFlow    MoneyResponse   `json:"netCashFlow"`
	EndingCash     MoneyResponse   `json:"endingCash"`
	CurrentRatio   decimal.Decimal `json:"currentRatio"`
	DebtToEquity   decimal.Decimal `json:"debtToEquity"`
	ReturnOnAssets decimal.Decimal `json:"returnOnAssets"`
	ProfitMargin   decimal.Decimal `json:"profitMargin"`
	IsBalanced     bool            `json:"isBalanced"`
}

func toReportSectionResponse(s domain.ReportSection, currency string) ReportSectionResponse {
	res := ReportSectionResponse{
		Groups: make([]ReportGroupResponse, len(s.Groups)),
		Total:  newMoney(s.Total, currency),
	}
	for i, g := range s.Groups {
		lines := make([]ReportLineResponse, len(g.Lines))
		for j, l := range g.Lines {
			lines[j] = ReportLineResponse{
				AccountID:   l.AccountID,
				AccountCode: l.AccountCode,
				Name:        l.Name,
				Amount:      newMoney(l.Amount, currency),
			}
		}
		res.Groups[i] = ReportGroupResponse{
			Subtype: string(g.Subtype),
			Lines:   lines,
			Total:   newMoney(g.Total, currency),
		}
	}
	return res
}

func toCashFlowSectionResponse(s domain.CashFlowSection, currency string) CashFlowSectionResponse {
	res := CashFlowSectionResponse{
		Items: make([]CashFlowItemResponse, len(s.Items)),
		Total: newMoney(s.Total, currency),
	}
	for i, item := range s.Items {
		res.Items[i] = CashFlowItemResponse{
			Description: item.Description,
			AccountID:   item.AccountID,
			Amount:      newMoney(item.Amount, currency),
		}
	}
	return res
}

// ToIncomeStatementResponse converts an income statement to a DTO response
func ToIncomeStatementResponse(r *domain.IncomeStatement) IncomeStatementResponse {
	return IncomeStatementResponse{
		FromDate:     r.Period.From.Format(DateLayout),
		ToDate:       r.Period.To.Format(DateLayout),
		CurrencyCode: r.CurrencyCode,
		Revenue:      toReportSectionResponse(r.Revenue, r.CurrencyCode),
		Expenses:     toReportSectionResponse(r.Expenses, r.CurrencyCode),
		NetIncome:    newMoney(r.NetIncome, r.CurrencyCode),
		ProfitMargin: r.ProfitMargin,
	}
}

// ToBalanceSheetResponse converts a balance sheet to a DTO response
func ToBalanceSheetResponse(r *domain.BalanceSheet) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:                      r.AsOf.Format(DateLayout),
		CurrencyCode:              r.CurrencyCode,
		Assets:                    toReportSectionResponse(r.Assets, r.CurrencyCode),
		Liabilities:               toReportSectionResponse(r.Liabilities, r.CurrencyCode),
		Equity:                    toReportSectionResponse(r.Equity, r.CurrencyCode),
		TotalAssets:               newMoney(r.TotalAssets, r.CurrencyCode),
		TotalLiabilities:          newMoney(r.TotalLiabilities, r.CurrencyCode),
		TotalEquity:               newMoney(r.TotalEquity, r.CurrencyCode),
		TotalLiabilitiesAndEquity: newMoney(r.TotalLiabilitiesAndEquity, r.CurrencyCode),
		Difference:                r.Difference,
		IsBalanced:                r.IsBalanced,
	}
}

// ToCashFlowResponse converts a cash flow statement to a DTO response
func ToCashFlowResponse(r *domain.CashFlowStatement) CashFlowResponse {
	return CashFlowResponse{
		FromDate:      r.Period.From.Format(DateLayout),
		ToDate:        r.Period.To.Format(DateLayout),
		CurrencyCode:  r.CurrencyCode,
		NetIncome:     newMoney(r.NetIncome, r.CurrencyCode),
		Operating:     toCashFlowSectionResponse(r.Operating, r.CurrencyCode),
		Investing:     toCashFlowSectionResponse(r.Investing, r.CurrencyCode),
		Financing:     toCashFlowSectionResponse(r.Financing, r.CurrencyCode),
		NetCashFlow:   newMoney(r.NetCashFlow, r.CurrencyCode),
		BeginningCash: newMoney(r.BeginningCash, r.CurrencyCode),
		EndingCash:    newMoney(r.EndingCash, r.CurrencyCode),
		Reconciles:    r.Reconciles,
		Unclassified:  newMoney(r.UnclassifiedDelta, r.CurrencyCode),
	}
}

// ToFinancialSummaryResponse converts a financial summary to a DTO response
func ToFinancialSummaryResponse(s *domain.FinancialSummary) FinancialSummaryResponse {
	cur := s.IncomeStatement.CurrencyCode
	return FinancialSummaryResponse{
		FromDate:       s.Period.From.Format(DateLayout),
		ToDate:         s.Period.To.Format(DateLayout),
		CurrencyCode:   cur,
		TotalRevenue:   newMoney(s.IncomeStatement.TotalRevenue, cur),
		TotalExpenses:  newMoney(s.IncomeStatement.TotalExpenses, cur),
		NetIncome:      newMoney(s.IncomeStatement.NetIncome, cur),
		TotalAssets:    newMoney(s.BalanceSheet.TotalAssets, cur),
		TotalEquity:    newMoney(s.BalanceSheet.TotalEquity, cur),
		NetCashFlow:    newMoney(s.CashFlow.NetCashFlow, cur),
		EndingCash:     newMoney(s.CashFlow.EndingCash, cur),
		CurrentRatio:   s.Ratios.CurrentRatio,
		DebtToEquity:   s.Ratios.DebtToEquity,
		ReturnOnAssets: s.Ratios.ReturnOnAssets,
		ProfitMargin:   s.Ratios.ProfitMargin,
		IsBalanced:     s.BalanceSheet.IsBalanced,
	}
}
