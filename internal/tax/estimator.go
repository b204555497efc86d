// Package tax turns net profit into a simplified self-employment tax
// reserve. The figures are planning estimates, not tax advice.
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/model"
)

// SEAdjustment is the share of net profit subject to self-employment tax.
var SEAdjustment = decimal.RequireFromString("0.9235")

// Estimate is the tax reserve derived from one profit figure.
type Estimate struct {
	NetProfitBeforeTax decimal.Decimal
	TaxableSEBase      decimal.Decimal
	FederalTax         decimal.Decimal
	StateTax           decimal.Decimal
	TotalTaxReserve    decimal.Decimal
	NetAfterTax        decimal.Decimal
}

// Compute derives the reserve. Federal and state components are rounded to
// cents before they are summed. A zero or negative profit yields no tax.
func Compute(netProfit decimal.Decimal, settings model.Settings) Estimate {
	e := Estimate{NetProfitBeforeTax: netProfit}
	if netProfit.IsPositive() {
		e.TaxableSEBase = netProfit.Mul(SEAdjustment)
		e.FederalTax = percentOf(e.TaxableSEBase, settings.FederalSETaxRate)
		e.StateTax = percentOf(netProfit, settings.StateTaxRate)
	}
	e.TotalTaxReserve = e.FederalTax.Add(e.StateTax)
	e.NetAfterTax = netProfit.Sub(e.TotalTaxReserve)
	return e
}

// EffectiveRate returns the reserve as a share of profit, zero when there is
// no profit.
func (e Estimate) EffectiveRate() decimal.Decimal {
	if !e.NetProfitBeforeTax.IsPositive() {
		return decimal.Zero
	}
	return e.TotalTaxReserve.Div(e.NetProfitBeforeTax)
}

func percentOf(base, rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	return base.Mul(rate).Shift(-2).Round(2)
}
