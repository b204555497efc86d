package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraledger/flora/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func tx(typ model.TxType, cat model.Category, amount string) model.Transaction {
	return model.Transaction{Date: date(2025, 5, 10), Type: typ, Category: cat, Amount: dec(amount), Description: string(cat)}
}

func TestCompute(t *testing.T) {
	txs := []model.Transaction{
		tx(model.TxIncome, model.CategorySale, "40"),
		tx(model.TxIncome, model.CategorySale, "35"),
		tx(model.TxIncome, model.CategoryOther, "5"),
		tx(model.TxExpense, model.CategoryFees, "4"),
		tx(model.TxExpense, model.CategoryFees, "3.50"),
		tx(model.TxExpense, model.CategoryCOGS, "30"),
		tx(model.TxExpense, model.CategoryCOGS, "30"),
		tx(model.TxExpense, model.CategoryShipping, "12"),
		tx(model.TxExpense, model.CategorySupplies, "8.25"),
		tx(model.TxExpense, model.CategoryTaxPayment, "1"),
		tx(model.TxExpense, model.CategoryPlantPurchase, "50"),
		tx(model.TxExpense, model.CategoryImportFee, "10"),
	}

	got := Compute(txs)
	assert.True(t, dec("80").Equal(got.GrossRevenue), "revenue %s", got.GrossRevenue)
	assert.True(t, dec("60").Equal(got.COGS))
	assert.True(t, dec("7.5").Equal(got.MarketplaceFees))
	assert.True(t, dec("12").Equal(got.ShippingCosts))
	assert.True(t, dec("9.25").Equal(got.OperatingExpenses), "opex %s", got.OperatingExpenses)
	assert.True(t, dec("0.5").Equal(got.GrossProfit), "gross %s", got.GrossProfit)
	assert.True(t, dec("-8.75").Equal(got.NetProfitBeforeTax), "net %s", got.NetProfitBeforeTax)
}

func TestCapitalizedCostsNeverOperating(t *testing.T) {
	txs := []model.Transaction{
		tx(model.TxExpense, model.CategoryPlantPurchase, "500"),
		tx(model.TxExpense, model.CategoryImportFee, "120"),
		tx(model.TxExpense, model.CategoryPlantPurchase, "0.01"),
	}
	got := Compute(txs)
	assert.True(t, got.OperatingExpenses.IsZero())
	assert.True(t, got.NetProfitBeforeTax.IsZero(), "capitalized costs must not reduce profit directly")
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil)
	assert.True(t, got.GrossRevenue.IsZero())
	assert.True(t, got.NetProfitBeforeTax.IsZero())
}

func TestUnknownExpenseCategoryIsOperating(t *testing.T) {
	got := Compute([]model.Transaction{tx(model.TxExpense, model.Category("LEGACY"), "3")})
	assert.True(t, dec("3").Equal(got.OperatingExpenses))
}

func TestFilter(t *testing.T) {
	txs := []model.Transaction{
		{ID: "1", Date: date(2024, 12, 31), Type: model.TxIncome, Category: model.CategorySale, Description: "Monstera cutting", LinkedAssetID: "p1"},
		{ID: "2", Date: date(2025, 1, 1), Type: model.TxExpense, Category: model.CategoryFees, Description: "Palmstreet Fee: Monstera cutting"},
		{ID: "3", Date: date(2025, 6, 1), Type: model.TxExpense, Category: model.CategoryCOGS, Description: "Basis Allocation", LinkedAssetID: "p1"},
		{ID: "4", Date: date(2026, 1, 1), Type: model.TxExpense, Category: model.CategorySupplies, Description: "Heat packs"},
	}

	ids := func(in []model.Transaction) []string {
		var out []string
		for _, t := range in {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1"}, ids(Filter{Type: model.TxIncome}.Apply(txs)))
	assert.Equal(t, []string{"1", "3"}, ids(Filter{AssetID: "p1"}.Apply(txs)))
	assert.Equal(t, []string{"2", "3"}, ids(Year(2025).Apply(txs)))
	assert.Equal(t, []string{"1", "2"}, ids(Filter{Search: "MONSTERA"}.Apply(txs)))
	assert.Equal(t, []string{"4"}, ids(Filter{Category: model.CategorySupplies}.Apply(txs)))
	require.Len(t, Filter{}.Apply(txs), 4)
}
