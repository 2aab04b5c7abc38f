package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyCode is used when an account or report does not name a currency.
const DefaultCurrencyCode = "USD"

// CurrencyPrecision returns the number of minor-unit digits for an ISO currency code.
// Unknown codes fall back to two digits.
func CurrencyPrecision(code string) int {
	if cur := money.GetCurrency(code); cur != nil {
		return cur.Fraction
	}
	return 2
}

// FormatWithCurrencyPrecision rounds an amount to the currency's minor unit.
// Example: 12.3456 USD returns "12.35", 12.3456 JPY returns "12".
func FormatWithCurrencyPrecision(amount decimal.Decimal, code string) string {
	return amount.Round(int32(CurrencyPrecision(code))).StringFixed(int32(CurrencyPrecision(code)))
}

// FormatMoney renders an amount with the currency's symbol and grouping,
// e.g. 1234.5 USD becomes "$1,234.50".
func FormatMoney(amount decimal.Decimal, code string) string {
	if code == "" {
		code = DefaultCurrencyCode
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return FormatWithCurrencyPrecision(amount, code) + " " + code
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
