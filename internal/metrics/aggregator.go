package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/categories"
	"github.com/floraledger/flora/internal/model"
)

// Totals are the aggregate figures derived from a transaction set.
type Totals struct {
	GrossRevenue       decimal.Decimal
	COGS               decimal.Decimal
	MarketplaceFees    decimal.Decimal
	ShippingCosts      decimal.Decimal
	OperatingExpenses  decimal.Decimal
	GrossProfit        decimal.Decimal // revenue less COGS, fees and shipping
	NetProfitBeforeTax decimal.Decimal
}

// Aggregator computes Totals using a category catalogue.
type Aggregator struct {
	catalogue *categories.Catalogue
}

// NewAggregator creates an Aggregator. A nil catalogue uses the defaults.
func NewAggregator(catalogue *categories.Catalogue) *Aggregator {
	if catalogue == nil {
		catalogue = categories.Default()
	}
	return &Aggregator{catalogue: catalogue}
}

// Compute derives Totals from the full transaction set.
//
// Capitalized categories (plant purchases, import fees) are kept out of
// operating expenses: that cost lives in asset basis and reaches profit
// only through COGS allocation.
func (a *Aggregator) Compute(txs []model.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		if tx.Type == model.TxIncome {
			t.GrossRevenue = t.GrossRevenue.Add(tx.Amount)
		}
		switch tx.Category {
		case model.CategoryCOGS:
			t.COGS = t.COGS.Add(tx.Amount)
		case model.CategoryFees:
			t.MarketplaceFees = t.MarketplaceFees.Add(tx.Amount)
		case model.CategoryShipping:
			t.ShippingCosts = t.ShippingCosts.Add(tx.Amount)
		}
		if tx.Type == model.TxExpense && a.isOperating(tx.Category) {
			t.OperatingExpenses = t.OperatingExpenses.Add(tx.Amount)
		}
	}
	t.GrossProfit = t.GrossRevenue.Sub(t.COGS).Sub(t.MarketplaceFees).Sub(t.ShippingCosts)
	t.NetProfitBeforeTax = t.GrossProfit.Sub(t.OperatingExpenses)
	return t
}

func (a *Aggregator) isOperating(cat model.Category) bool {
	switch a.catalogue.TreatmentOf(cat) {
	case categories.TreatmentCOGS,
		categories.TreatmentMarketplaceFee,
		categories.TreatmentShipping,
		categories.TreatmentCapitalized:
		return false
	}
	return true
}

// Compute is a shorthand for NewAggregator(nil).Compute.
func Compute(txs []model.Transaction) Totals {
	return NewAggregator(nil).Compute(txs)
}
