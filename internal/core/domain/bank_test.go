package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankTransactionType_BalanceEffect(t *testing.T) {
	assert.True(t, domain.BankDeposit.BalanceEffect(d("100")).Equal(d("100")))
	assert.True(t, domain.BankInterest.BalanceEffect(d("1.5")).Equal(d("1.5")))
	for _, typ := range []domain.BankTransactionType{
		domain.BankWithdrawal, domain.BankTransfer, domain.BankFee,
		domain.BankCheck, domain.BankCardCharge, domain.BankOther,
	} {
		assert.True(t, typ.BalanceEffect(d("20")).Equal(d("-20")), string(typ))
	}
}

func TestReconciliationFrequency_NextDue(t *testing.T) {
	from := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		freq domain.ReconciliationFrequency
		want time.Time
	}{
		{domain.FrequencyDaily, from.AddDate(0, 0, 1)},
		{domain.FrequencyWeekly, from.AddDate(0, 0, 7)},
		{domain.FrequencyBiWeekly, from.AddDate(0, 0, 14)},
		{domain.FrequencyMonthly, from.AddDate(0, 1, 0)},
		{domain.FrequencyQuarterly, from.AddDate(0, 3, 0)},
		{domain.FrequencyAnnually, from.AddDate(1, 0, 0)},
	}
	for _, tt := range tests {
		next := tt.freq.NextDue(from)
		require.NotNil(t, next, string(tt.freq))
		assert.Equal(t, tt.want, *next, string(tt.freq))
	}
	assert.Nil(t, domain.FrequencyManual.NextDue(from))
}

func TestMaskAccountNumber(t *testing.T) {
	assert.Equal(t, "****6789", domain.MaskAccountNumber("0123 456 789"))
	assert.Equal(t, "****12", domain.MaskAccountNumber("12"))
}

func TestBankAccount_IsReconciliationDue(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	acct := domain.BankAccount{IsActive: true, RequiresReconciliation: true, NextReconciliationDue: &past}
	assert.True(t, acct.IsReconciliationDue(now))

	acct.NextReconciliationDue = &now
	assert.True(t, acct.IsReconciliationDue(now))

	acct.NextReconciliationDue = &future
	assert.False(t, acct.IsReconciliationDue(now))

	acct.NextReconciliationDue = &past
	acct.RequiresReconciliation = false
	assert.False(t, acct.IsReconciliationDue(now))
}

func TestReconciliation_IsWithinTolerance(t *testing.T) {
	assert.True(t, domain.Reconciliation{Difference: d("0.009")}.IsWithinTolerance())
	assert.False(t, domain.Reconciliation{Difference: d("-50")}.IsWithinTolerance())
}

func TestCashFlowSection_AddSkipsNegligible(t *testing.T) {
	var s domain.CashFlowSection
	s.Add("Net income", "", d("100"))
	s.Add("Rounding", "", d("0.004"))
	s.Add("Purchase of equipment", "x", d("-40"))
	assert.Len(t, s.Items, 2)
	assert.True(t, s.Total.Equal(d("60")))
}
