package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code             string                `json:"code" binding:"required,accountcode"`
	Name             string                `json:"name" binding:"required,max=255"`
	AccountType      domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype          domain.AccountSubtype `json:"subtype"`          // Optional, defaults per type
	ReportCategory   domain.ReportCategory `json:"reportCategory"`   // Optional
	CashFlowRole     domain.CashFlowRole   `json:"cashFlowRole"`     // Optional, derived from reportCategory
	ParentAccountID  *string               `json:"parentAccountID"`  // Optional, use pointer for nullability
	Description      string                `json:"description"`      // Optional
	CurrencyCode     string                `json:"currencyCode"`     // Optional, defaults to the reporting currency
	IsSystemAccount  bool                  `json:"isSystemAccount"`  // System accounts cannot be deactivated
	AllowManualEntry *bool                 `json:"allowManualEntry"` // Optional, defaults to true
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Type and normal balance are immutable.
type UpdateAccountRequest struct {
	Name             *string                `json:"name"`
	Description      *string                `json:"description"`
	Subtype          *domain.AccountSubtype `json:"subtype"`
	ReportCategory   *domain.ReportCategory `json:"reportCategory"`
	CashFlowRole     *domain.CashFlowRole   `json:"cashFlowRole"`
	AllowManualEntry *bool                  `json:"allowManualEntry"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType     string `form:"accountType"`
	IncludeInactive bool   `form:"includeInactive"`
	Limit           int    `form:"limit,default=100"`
	Offset          int    `form:"offset,default=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string                `json:"accountID"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	AccountType      domain.AccountType    `json:"accountType"`
	Subtype          domain.AccountSubtype `json:"subtype"`
	NormalBalance    domain.EntrySide      `json:"normalBalance"`
	ReportCategory   domain.ReportCategory `json:"reportCategory,omitempty"`
	CashFlowRole     domain.CashFlowRole   `json:"cashFlowRole"`
	ParentAccountID  *string               `json:"parentAccountID,omitempty"`
	Level            int                   `json:"level"`
	Description      string                `json:"description"`
	CurrencyCode     string                `json:"currencyCode"`
	IsSystemAccount  bool                  `json:"isSystemAccount"`
	AllowManualEntry bool                  `json:"allowManualEntry"`
	IsActive         bool                  `json:"isActive"`
	Balance          decimal.Decimal       `json:"balance"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// AccountTreeResponse is an account with its nested children.
type AccountTreeResponse struct {
	AccountResponse
	Children []AccountTreeResponse `json:"children,omitempty"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID     string           `json:"accountID"`
	AccountCode   string           `json:"accountCode"`
	NormalBalance domain.EntrySide `json:"normalBalance"`
	AsOf          *string          `json:"asOf,omitempty"`
	Balance       decimal.Decimal  `json:"balance"`
	Formatted     string           `json:"formatted"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Code:             acc.Code,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		Subtype:          acc.Subtype,
		NormalBalance:    acc.NormalBalance,
		ReportCategory:   acc.ReportCategory,
		CashFlowRole:     acc.CashFlowRole,
		ParentAccountID:  acc.ParentAccountID,
		Level:            acc.Level,
		Description:      acc.Description,
		CurrencyCode:     acc.CurrencyCode,
		IsSystemAccount:  acc.IsSystemAccount,
		AllowManualEntry: acc.AllowManualEntry,
		IsActive:         acc.IsActive,
		Balance:          acc.Balance,
		CreatedAt:        acc.CreatedAt,
		CreatedBy:        acc.CreatedBy,
		LastUpdatedAt:    acc.LastUpdatedAt,
		LastUpdatedBy:    acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ToAccountTreeResponse converts tree nodes recursively.
func ToAccountTreeResponse(nodes []*domain.AccountNode) []AccountTreeResponse {
	res := make([]AccountTreeResponse, len(nodes))
	for i, n := range nodes {
		res[i] = AccountTreeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Children:        ToAccountTreeResponse(n.Children),
		}
	}
	return res
}
