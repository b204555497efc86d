package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD formats an amount as US dollars, e.g. "$1,234.50". Amounts are
// rounded to cents, half away from zero.
func USD(d decimal.Decimal) string {
	cur := *money.New(0, money.USD).Currency()
	cents := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// SignedUSD is USD with an explicit sign for positive amounts and "-" for
// zero.
func SignedUSD(d decimal.Decimal) string {
	switch {
	case d.IsZero():
		return "-"
	case d.IsPositive():
		return "+" + USD(d)
	}
	return USD(d)
}

// Percent formats a ratio as a percentage with one decimal, e.g. 0.125
// becomes "12.5%".
func Percent(ratio decimal.Decimal) string {
	return ratio.Shift(2).StringFixed(1) + "%"
}

// Rate formats a percentage value as stored in settings, e.g. 5.75 becomes
// "5.75%".
func Rate(pct decimal.Decimal) string {
	return pct.String() + "%"
}
