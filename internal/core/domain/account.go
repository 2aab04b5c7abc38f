package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance returns the side on which balances of this type increase.
func (t AccountType) NormalBalance() EntrySide {
	if t == Asset || t == Expense {
		return Debit
	}
	return Credit
}

// IsBalanceSheet reports whether the type belongs on the balance sheet.
func (t AccountType) IsBalanceSheet() bool {
	return t == Asset || t == Liability || t == Equity
}

// AccountSubtype refines an AccountType for report grouping.
type AccountSubtype string

const (
	CurrentAsset      AccountSubtype = "current_asset"
	FixedAsset        AccountSubtype = "fixed_asset"
	OtherAsset        AccountSubtype = "other_asset"
	CurrentLiability  AccountSubtype = "current_liability"
	LongTermLiability AccountSubtype = "long_term_liability"
	OwnerEquity       AccountSubtype = "owner_equity"
	RetainedEarnings  AccountSubtype = "retained_earnings"
	OperatingRevenue  AccountSubtype = "operating_revenue"
	OtherRevenue      AccountSubtype = "other_revenue"
	CostOfGoodsSold   AccountSubtype = "cost_of_goods_sold"
	OperatingExpense  AccountSubtype = "operating_expense"
	OtherExpense      AccountSubtype = "other_expense"
	CurrentEarnings   AccountSubtype = "current_earnings"
)

var subtypesByType = map[AccountType][]AccountSubtype{
	Asset:     {CurrentAsset, FixedAsset, OtherAsset},
	Liability: {CurrentLiability, LongTermLiability},
	Equity:    {OwnerEquity, RetainedEarnings},
	Revenue:   {OperatingRevenue, OtherRevenue},
	Expense:   {CostOfGoodsSold, OperatingExpense, OtherExpense},
}

// ValidFor reports whether the subtype may be used with the given account type.
func (s AccountSubtype) ValidFor(t AccountType) bool {
	for _, candidate := range subtypesByType[t] {
		if candidate == s {
			return true
		}
	}
	return false
}

// DefaultSubtype returns the subtype used when none is supplied.
func DefaultSubtype(t AccountType) AccountSubtype {
	if subs := subtypesByType[t]; len(subs) > 0 {
		if t == Expense {
			return OperatingExpense
		}
		return subs[0]
	}
	return ""
}

// ReportCategory is a finer classification used by reports and cash-flow defaults.
type ReportCategory string

const (
	CatCashAndEquivalents     ReportCategory = "cash_and_equivalents"
	CatAccountsReceivable     ReportCategory = "accounts_receivable"
	CatInventory              ReportCategory = "inventory"
	CatPrepaidExpenses        ReportCategory = "prepaid_expenses"
	CatPropertyPlantEquipment ReportCategory = "property_plant_equipment"
	CatIntangibleAssets       ReportCategory = "intangible_assets"
	CatAccountsPayable        ReportCategory = "accounts_payable"
	CatAccruedLiabilities     ReportCategory = "accrued_liabilities"
	CatDeferredRevenue        ReportCategory = "deferred_revenue"
	CatLoansPayable           ReportCategory = "loans_payable"
	CatOwnerCapital           ReportCategory = "owner_capital"
	CatRetainedEarnings       ReportCategory = "retained_earnings"
	CatSalesRevenue           ReportCategory = "sales_revenue"
	CatServiceRevenue         ReportCategory = "service_revenue"
	CatCostOfSales            ReportCategory = "cost_of_sales"
	CatPayrollExpense         ReportCategory = "payroll_expense"
	CatRentExpense            ReportCategory = "rent_expense"
	CatUtilitiesExpense       ReportCategory = "utilities_expense"
	CatMarketingExpense       ReportCategory = "marketing_expense"
	CatAdminExpense           ReportCategory = "admin_expense"
	CatOtherIncomeExpense     ReportCategory = "other_income_expense"
)

// CashFlowRole tells the cash flow statement how to classify an account's movement.
type CashFlowRole string

const (
	RoleCash           CashFlowRole = "CASH"
	RoleWorkingCapital CashFlowRole = "WORKING_CAPITAL"
	RoleFixedAsset     CashFlowRole = "FIXED_ASSET"
	RoleInvestment     CashFlowRole = "INVESTMENT"
	RoleDebt           CashFlowRole = "DEBT"
	RoleCapital        CashFlowRole = "CAPITAL"
	RoleDividend       CashFlowRole = "DIVIDEND"
	RoleDepreciation   CashFlowRole = "DEPRECIATION"
	RoleNone           CashFlowRole = "NONE"
)

// IsValid reports whether r is a known role.
func (r CashFlowRole) IsValid() bool {
	switch r {
	case RoleCash, RoleWorkingCapital, RoleFixedAsset, RoleInvestment, RoleDebt,
		RoleCapital, RoleDividend, RoleDepreciation, RoleNone:
		return true
	}
	return false
}

// AllowedFor reports whether the role makes sense for the account type.
func (r CashFlowRole) AllowedFor(t AccountType) bool {
	switch r {
	case RoleNone:
		return true
	case RoleCash, RoleFixedAsset, RoleInvestment:
		return t == Asset
	case RoleWorkingCapital:
		return t == Asset || t == Liability
	case RoleDebt:
		return t == Liability
	case RoleCapital, RoleDividend:
		return t == Equity
	case RoleDepreciation:
		return t == Expense
	}
	return false
}

// DefaultCashFlowRole derives a role from the report category.
func DefaultCashFlowRole(cat ReportCategory) CashFlowRole {
	switch cat {
	case CatCashAndEquivalents:
		return RoleCash
	case CatAccountsReceivable, CatInventory, CatPrepaidExpenses,
		CatAccountsPayable, CatAccruedLiabilities, CatDeferredRevenue:
		return RoleWorkingCapital
	case CatPropertyPlantEquipment, CatIntangibleAssets:
		return RoleFixedAsset
	case CatLoansPayable:
		return RoleDebt
	case CatOwnerCapital:
		return RoleCapital
	default:
		return RoleNone
	}
}

// MaxAccountLevel is the deepest nesting allowed in the account tree.
const MaxAccountLevel = 5

var accountCodePattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// ValidAccountCode reports whether code is a 4 to 6 digit account code.
func ValidAccountCode(code string) bool {
	return accountCodePattern.MatchString(code)
}

// Account is an entry in the chart of accounts.
type Account struct {
	AccountID        string          `json:"accountID"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	AccountType      AccountType     `json:"accountType"`
	Subtype          AccountSubtype  `json:"subtype"`
	NormalBalance    EntrySide       `json:"normalBalance"`
	ReportCategory   ReportCategory  `json:"reportCategory,omitempty"`
	CashFlowRole     CashFlowRole    `json:"cashFlowRole"`
	ParentAccountID  *string         `json:"parentAccountID,omitempty"`
	Level            int             `json:"level"`
	Description      string          `json:"description"`
	CurrencyCode     string          `json:"currencyCode"`
	IsSystemAccount  bool            `json:"isSystemAccount"`
	AllowManualEntry bool            `json:"allowManualEntry"`
	IsActive         bool            `json:"isActive"`
	Balance          decimal.Decimal `json:"balance"`
	Version          int64           `json:"version"`
	AuditFields
}

// SignedDelta converts a debit/credit pair into the change of this account's
// balance measured on its normal side.
func (a Account) SignedDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == Debit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// AccountNode is an account with its children, used for tree listings.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children,omitempty"`
}

// BuildAccountTree arranges a flat list into a forest ordered as given.
// Accounts whose parent is missing from the list become roots.
func BuildAccountTree(accounts []Account) []*AccountNode {
	nodes := make(map[string]*AccountNode, len(accounts))
	for i := range accounts {
		nodes[accounts[i].AccountID] = &AccountNode{Account: accounts[i]}
	}
	roots := make([]*AccountNode, 0)
	for i := range accounts {
		node := nodes[accounts[i].AccountID]
		if accounts[i].ParentAccountID != nil {
			if parent, ok := nodes[*accounts[i].ParentAccountID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
