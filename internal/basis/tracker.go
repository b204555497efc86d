// Package basis derives per-asset cost basis figures from the transaction log.
// Nothing here is cached: every figure is recomputed from the COGS and income
// rows linked to an asset, so it can never drift from the ledger.
package basis

import (
	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/model"
)

// Used returns the basis already allocated to sales of an asset, i.e. the
// sum of COGS rows linked to it.
func Used(txs []model.Transaction, assetID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Category == model.CategoryCOGS && t.IsLinkedTo(assetID) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// RevenueGenerated returns the income linked to an asset.
func RevenueGenerated(txs []model.Transaction, assetID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == model.TxIncome && t.IsLinkedTo(assetID) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Remaining returns the basis still available for allocation. The result is
// floored at zero so a corrupted history never reports negative basis.
func Remaining(asset model.Asset, txs []model.Transaction) decimal.Decimal {
	r := asset.InitialBasis.Sub(Used(txs, asset.ID))
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// RemainingBasis looks the asset up in state and returns its remaining
// basis. ok is false when the asset does not exist.
func RemainingBasis(state model.BusinessState, assetID string) (decimal.Decimal, bool) {
	a, ok := state.FindAsset(assetID)
	if !ok {
		return decimal.Zero, false
	}
	return Remaining(a, state.Transactions), true
}

// Clamp limits a requested allocation to what remains of the asset's
// basis. Negative requests clamp to zero.
func Clamp(requested decimal.Decimal, asset model.Asset, txs []model.Transaction) decimal.Decimal {
	if !requested.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(requested, Remaining(asset, txs))
}

// ROI returns (revenue - initialBasis) / initialBasis as a ratio. ok is false
// when the asset has no basis, where the ratio is undefined.
func ROI(asset model.Asset, txs []model.Transaction) (ratio decimal.Decimal, ok bool) {
	if !asset.InitialBasis.IsPositive() {
		return decimal.Zero, false
	}
	rev := RevenueGenerated(txs, asset.ID)
	return rev.Sub(asset.InitialBasis).Div(asset.InitialBasis), true
}
