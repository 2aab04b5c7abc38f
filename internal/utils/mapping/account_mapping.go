package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var category *string
	if d.ReportCategory != "" {
		c := string(d.ReportCategory)
		category = &c
	}
	return models.Account{
		AccountID:        d.AccountID,
		Code:             d.Code,
		Name:             d.Name,
		AccountType:      string(d.AccountType),
		Subtype:          string(d.Subtype),
		NormalBalance:    string(d.NormalBalance),
		ReportCategory:   category,
		CashFlowRole:     string(d.CashFlowRole),
		ParentAccountID:  d.ParentAccountID,
		Level:            d.Level,
		Description:      nullableString(d.Description),
		CurrencyCode:     d.CurrencyCode,
		IsSystemAccount:  d.IsSystemAccount,
		AllowManualEntry: d.AllowManualEntry,
		IsActive:         d.IsActive,
		Balance:          d.Balance,
		Version:          d.Version,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		Code:             m.Code,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		Subtype:          domain.AccountSubtype(m.Subtype),
		NormalBalance:    domain.EntrySide(m.NormalBalance),
		ReportCategory:   domain.ReportCategory(stringValue(m.ReportCategory)),
		CashFlowRole:     domain.CashFlowRole(m.CashFlowRole),
		ParentAccountID:  m.ParentAccountID,
		Level:            m.Level,
		Description:      stringValue(m.Description),
		CurrencyCode:     m.CurrencyCode,
		IsSystemAccount:  m.IsSystemAccount,
		AllowManualEntry: m.AllowManualEntry,
		IsActive:         m.IsActive,
		Balance:          m.Balance,
		Version:          m.Version,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
