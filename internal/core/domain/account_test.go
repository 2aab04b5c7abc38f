package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountType_NormalBalance(t *testing.T) {
	assert.Equal(t, domain.Debit, domain.Asset.NormalBalance())
	assert.Equal(t, domain.Debit, domain.Expense.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Liability.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Equity.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Revenue.NormalBalance())
}

func TestValidAccountCode(t *testing.T) {
	for _, code := range []string{"1000", "12345", "999999"} {
		assert.True(t, domain.ValidAccountCode(code), code)
	}
	for _, code := range []string{"", "100", "1234567", "10a0", " 1000"} {
		assert.False(t, domain.ValidAccountCode(code), code)
	}
}

func TestAccount_SignedDelta(t *testing.T) {
	cash := domain.Account{NormalBalance: domain.Debit}
	revenue := domain.Account{NormalBalance: domain.Credit}

	assert.True(t, cash.SignedDelta(d("500"), d("0")).Equal(d("500")))
	assert.True(t, cash.SignedDelta(d("0"), d("200")).Equal(d("-200")))
	assert.True(t, revenue.SignedDelta(d("0"), d("500")).Equal(d("500")))
	assert.True(t, revenue.SignedDelta(d("100"), d("0")).Equal(d("-100")))
}

func TestDefaultCashFlowRole(t *testing.T) {
	assert.Equal(t, domain.RoleCash, domain.DefaultCashFlowRole(domain.CatCashAndEquivalents))
	assert.Equal(t, domain.RoleWorkingCapital, domain.DefaultCashFlowRole(domain.CatAccountsReceivable))
	assert.Equal(t, domain.RoleWorkingCapital, domain.DefaultCashFlowRole(domain.CatAccountsPayable))
	assert.Equal(t, domain.RoleFixedAsset, domain.DefaultCashFlowRole(domain.CatPropertyPlantEquipment))
	assert.Equal(t, domain.RoleDebt, domain.DefaultCashFlowRole(domain.CatLoansPayable))
	assert.Equal(t, domain.RoleCapital, domain.DefaultCashFlowRole(domain.CatOwnerCapital))
	assert.Equal(t, domain.RoleNone, domain.DefaultCashFlowRole(domain.CatRentExpense))
}

func TestCashFlowRole_AllowedFor(t *testing.T) {
	assert.True(t, domain.RoleCash.AllowedFor(domain.Asset))
	assert.False(t, domain.RoleCash.AllowedFor(domain.Liability))
	assert.True(t, domain.RoleDepreciation.AllowedFor(domain.Expense))
	assert.False(t, domain.RoleDepreciation.AllowedFor(domain.Asset))
	assert.True(t, domain.RoleWorkingCapital.AllowedFor(domain.Liability))
	assert.True(t, domain.RoleNone.AllowedFor(domain.Revenue))
}

func TestAccountSubtype_ValidFor(t *testing.T) {
	assert.True(t, domain.CurrentAsset.ValidFor(domain.Asset))
	assert.False(t, domain.CurrentAsset.ValidFor(domain.Liability))
	assert.Equal(t, domain.OperatingExpense, domain.DefaultSubtype(domain.Expense))
	assert.Equal(t, domain.CurrentAsset, domain.DefaultSubtype(domain.Asset))
}

func TestBuildAccountTree(t *testing.T) {
	parent := "1000"
	accounts := []domain.Account{
		{AccountID: "1000", Code: "1000"},
		{AccountID: "1100", Code: "1100", ParentAccountID: &parent},
		{AccountID: "2000", Code: "2000"},
	}
	roots := domain.BuildAccountTree(accounts)
	require.Len(t, roots, 2)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "1100", roots[0].Children[0].AccountID)
	assert.Empty(t, roots[1].Children)
}
