package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:           d.BankAccountID,
		Name:                    d.Name,
		BankName:                d.BankName,
		AccountNumberMasked:     d.AccountNumberMasked,
		CurrencyCode:            d.CurrencyCode,
		LedgerAccountID:         d.LedgerAccountID,
		OpeningBalance:          d.OpeningBalance,
		CurrentBalance:          d.CurrentBalance,
		IsPrimary:               d.IsPrimary,
		IsActive:                d.IsActive,
		RequiresReconciliation:  d.RequiresReconciliation,
		ReconciliationFrequency: string(d.ReconciliationFrequency),
		NextReconciliationDue:   d.NextReconciliationDue,
		LastStatementDate:       d.LastStatementDate,
		LastStatementBalance:    d.LastStatementBalance,
		Version:                 d.Version,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:           m.BankAccountID,
		Name:                    m.Name,
		BankName:                m.BankName,
		AccountNumberMasked:     m.AccountNumberMasked,
		CurrencyCode:            m.CurrencyCode,
		LedgerAccountID:         m.LedgerAccountID,
		OpeningBalance:          m.OpeningBalance,
		CurrentBalance:          m.CurrentBalance,
		IsPrimary:               m.IsPrimary,
		IsActive:                m.IsActive,
		RequiresReconciliation:  m.RequiresReconciliation,
		ReconciliationFrequency: domain.ReconciliationFrequency(m.ReconciliationFrequency),
		NextReconciliationDue:   m.NextReconciliationDue,
		LastStatementDate:       m.LastStatementDate,
		LastStatementBalance:    m.LastStatementBalance,
		Version:                 m.Version,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransaction converts a domain BankTransaction to a model BankTransaction
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		TransactionID:    d.TransactionID,
		BankAccountID:    d.BankAccountID,
		TransactionDate:  d.TransactionDate,
		Description:      d.Description,
		Amount:           d.Amount,
		TransactionType:  string(d.TransactionType),
		Reference:        nullableString(d.Reference),
		IsReconciled:     d.IsReconciled,
		ReconciledAt:     d.ReconciledAt,
		ReconciliationID: d.ReconciliationID,
		JournalEntryID:   d.JournalEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a model BankTransaction to a domain BankTransaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		TransactionID:    m.TransactionID,
		BankAccountID:    m.BankAccountID,
		TransactionDate:  m.TransactionDate,
		Description:      m.Description,
		Amount:           m.Amount,
		TransactionType:  domain.BankTransactionType(m.TransactionType),
		Reference:        stringValue(m.Reference),
		IsReconciled:     m.IsReconciled,
		ReconciledAt:     m.ReconciledAt,
		ReconciliationID: m.ReconciliationID,
		JournalEntryID:   m.JournalEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelReconciliation converts a domain Reconciliation to a model Reconciliation
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID:   d.ReconciliationID,
		BankAccountID:      d.BankAccountID,
		StatementStartDate: d.StatementStartDate,
		StatementEndDate:   d.StatementEndDate,
		StatementBalance:   d.StatementBalance,
		BookBalance:        d.BookBalance,
		Difference:         d.Difference,
		Deposits:           d.Deposits,
		Withdrawals:        d.Withdrawals,
		BankFees:           d.BankFees,
		InterestEarned:     d.InterestEarned,
		Notes:              nullableString(d.Notes),
		Status:             string(d.Status),
		CompletedAt:        d.CompletedAt,
		CompletedBy:        d.CompletedBy,
		ReconciledCount:    d.ReconciledCount,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliation converts a model Reconciliation to a domain Reconciliation
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID:   m.ReconciliationID,
		BankAccountID:      m.BankAccountID,
		StatementStartDate: m.StatementStartDate,
		StatementEndDate:   m.StatementEndDate,
		StatementBalance:   m.StatementBalance,
		BookBalance:        m.BookBalance,
		Difference:         m.Difference,
		Deposits:           m.Deposits,
		Withdrawals:        m.Withdrawals,
		BankFees:           m.BankFees,
		InterestEarned:     m.InterestEarned,
		Notes:              stringValue(m.Notes),
		Status:             domain.ReconciliationStatus(m.Status),
		CompletedAt:        m.CompletedAt,
		CompletedBy:        m.CompletedBy,
		ReconciledCount:    m.ReconciledCount,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
