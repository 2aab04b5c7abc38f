package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/shopspring/decimal"
)

// ListGeneralLedgerParams defines query parameters for the general ledger listing.
type ListGeneralLedgerParams struct {
	Account     string  `form:"account"`
	EntryNumber string  `form:"entryNumber"`
	Search      string  `form:"search"`
	DateFrom    string  `form:"dateFrom"`
	DateTo      string  `form:"dateTo"`
	Limit       int     `form:"limit,default=50"`
	NextToken   *string `form:"nextToken"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit      decimal.Decimal `json:"debit"`
		Credit     decimal.Decimal `json:"credit"`
		Difference decimal.Decimal `json:"difference"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// LedgerRowResponse is a posted ledger row.
type LedgerRowResponse struct {
	RowID          string          `json:"rowID"`
	JournalEntryID string          `json:"journalEntryID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      string          `json:"entryDate"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
}

// AccountTransactionResponse is a ledger row with a running balance.
type AccountTransactionResponse struct {
	LedgerRowResponse
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountTransactionsResponse is the history of one account.
type AccountTransactionsResponse struct {
	Account        AccountResponse              `json:"account"`
	From           string                       `json:"from,omitempty"`
	To             string                       `json:"to"`
	OpeningBalance decimal.Decimal              `json:"openingBalance"`
	ClosingBalance decimal.Decimal              `json:"closingBalance"`
	Transactions   []AccountTransactionResponse `json:"transactions"`
}

// GeneralLedgerLineResponse is a ledger row joined with its account.
type GeneralLedgerLineResponse struct {
	LedgerRowResponse
	AccountID   string `json:"accountID"`
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
	AccountType string `json:"accountType"`
}

// GeneralLedgerResponse is a page of the general ledger with filter-wide totals.
type GeneralLedgerResponse struct {
	Lines       []GeneralLedgerLineResponse `json:"lines"`
	TotalDebit  decimal.Decimal             `json:"totalDebit"`
	TotalCredit decimal.Decimal             `json:"totalCredit"`
	NextToken   *string                     `json:"nextToken,omitempty"`
}

// AccountActivityResponse summarizes a fiscal month for one account.
type AccountActivityResponse struct {
	AccountID        string          `json:"accountID"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	NetActivity      decimal.Decimal `json:"netActivity"`
	TransactionCount int             `json:"transactionCount"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:       tb.AsOf.Format(DateLayout),
		Rows:       make([]TrialBalanceRowResponse, len(tb.Rows)),
		IsBalanced: tb.IsBalanced,
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	response.Totals.Difference = tb.Difference
	return response
}

func toLedgerRowResponse(r domain.LedgerRow) LedgerRowResponse {
	return LedgerRowResponse{
		RowID:          r.RowID,
		JournalEntryID: r.JournalEntryID,
		EntryNumber:    r.EntryNumber,
		EntryDate:      r.EntryDate.Format(DateLayout),
		Description:    r.Description,
		Debit:          r.Debit,
		Credit:         r.Credit,
	}
}

// ToAccountTransactionsResponse converts an account history.
func ToAccountTransactionsResponse(h *domain.AccountTransactions) AccountTransactionsResponse {
	res := AccountTransactionsResponse{
		Account:        ToAccountResponse(&h.Account),
		To:             h.Range.To.Format(DateLayout),
		OpeningBalance: h.OpeningBalance,
		ClosingBalance: h.ClosingBalance,
		Transactions:   make([]AccountTransactionResponse, len(h.Transactions)),
	}
	if !h.Range.From.IsZero() {
		res.From = h.Range.From.Format(DateLayout)
	}
	for i, t := range h.Transactions {
		res.Transactions[i] = AccountTransactionResponse{
			LedgerRowResponse: toLedgerRowResponse(t.LedgerRow),
			RunningBalance:    t.RunningBalance,
		}
	}
	return res
}

// ToGeneralLedgerResponse converts a general ledger page.
func ToGeneralLedgerResponse(p *domain.GeneralLedgerPage) GeneralLedgerResponse {
	res := GeneralLedgerResponse{
		Lines:       make([]GeneralLedgerLineResponse, len(p.Lines)),
		TotalDebit:  p.TotalDebit,
		TotalCredit: p.TotalCredit,
		NextToken:   p.NextToken,
	}
	for i, l := range p.Lines {
		res.Lines[i] = GeneralLedgerLineResponse{
			LedgerRowResponse: toLedgerRowResponse(l.LedgerRow),
			AccountID:         l.AccountID,
			AccountCode:       l.AccountCode,
			AccountName:       l.AccountName,
			AccountType:       string(l.AccountType),
		}
	}
	return res
}

// ToAccountActivityResponse converts an activity summary.
func ToAccountActivityResponse(a *domain.AccountActivity) AccountActivityResponse {
	return AccountActivityResponse{
		AccountID:        a.AccountID,
		Year:             a.Year,
		Month:            a.Month,
		TotalDebit:       a.TotalDebit,
		TotalCredit:      a.TotalCredit,
		NetActivity:      a.NetActivity,
		TransactionCount: a.TransactionCount,
	}
}

// ToAccountBalanceResponse converts a balance lookup.
func ToAccountBalanceResponse(acc *domain.Account, balance decimal.Decimal, asOf *string) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:     acc.AccountID,
		AccountCode:   acc.Code,
		NormalBalance: acc.NormalBalance,
		AsOf:          asOf,
		Balance:       balance,
		Formatted:     utils.FormatMoney(balance, acc.CurrencyCode),
	}
}
