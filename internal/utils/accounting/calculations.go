package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line amount based on account type and side.
// This is used by the poster and by ledger queries to keep the sign convention in one place.
func CalculateSignedAmount(side domain.EntrySide, amount decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	isDebit := side == domain.Debit

	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			return amount.Neg(), nil
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			return amount.Neg(), nil
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	return amount, nil
}

// ValidateJournalLines checks the line-level rules of an entry: at least two lines,
// each with exactly one positive side, and debits equal to credits within tolerance.
func ValidateJournalLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}

	if !domain.WithinTolerance(debit, credit) {
		return fmt.Errorf("journal entry does not balance: debit %s, credit %s", debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}

// BalanceDeltas computes the change each line set makes to the cached balance of every account.
// accounts must contain every account referenced by lines.
func BalanceDeltas(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	deltas := make(map[string]decimal.Decimal, len(accounts))
	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s not found for line %d", l.AccountID, l.LineNumber)
		}
		signed, err := CalculateSignedAmount(l.Side(), l.Amount(), acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", l.LineNumber, err)
		}
		deltas[l.AccountID] = deltas[l.AccountID].Add(signed)
	}
	return deltas, nil
}

// NormalBalance nets raw debit and credit sums on the account type's normal side.
func NormalBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.NormalBalance() == domain.Debit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// TrialBalanceColumns places the net of debit and credit sums into exactly one column.
// A positive net lands in the debit column, a negative net in the credit column.
func TrialBalanceColumns(debit, credit decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	net := debit.Sub(credit)
	if net.IsNegative() {
		return decimal.Zero, net.Neg()
	}
	return net, decimal.Zero
}

// RunningBalances folds ledger rows, already in posting order, into running balances
// measured on the account type's normal side, starting from opening.
func RunningBalances(accountType domain.AccountType, opening decimal.Decimal, rows []domain.LedgerRow) ([]domain.AccountTransaction, decimal.Decimal) {
	balance := opening
	out := make([]domain.AccountTransaction, len(rows))
	for i, r := range rows {
		balance = balance.Add(NormalBalance(accountType, r.Debit, r.Credit))
		out[i] = domain.AccountTransaction{LedgerRow: r, RunningBalance: balance}
	}
	return out, balance
}
