package basis

import (
	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/model"
)

// Summary is the per-asset view shown in inventory listings.
type Summary struct {
	Asset     model.Asset
	Used      decimal.Decimal
	Remaining decimal.Decimal
	Revenue   decimal.Decimal
	ROI       decimal.Decimal // ratio, meaningful only when HasROI
	HasROI    bool
}

// Breakeven reports whether revenue has recovered the initial basis.
func (s Summary) Breakeven() bool {
	return s.Revenue.GreaterThanOrEqual(s.Asset.InitialBasis)
}

// Recovered returns revenue as a share of initial basis, capped at 1.
func (s Summary) Recovered() decimal.Decimal {
	if !s.Asset.InitialBasis.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return decimal.Min(decimal.NewFromInt(1), s.Revenue.Div(s.Asset.InitialBasis))
}

// Summarize builds the summary for one asset.
func Summarize(asset model.Asset, txs []model.Transaction) Summary {
	roi, ok := ROI(asset, txs)
	return Summary{
		Asset:     asset,
		Used:      Used(txs, asset.ID),
		Remaining: Remaining(asset, txs),
		Revenue:   RevenueGenerated(txs, asset.ID),
		ROI:       roi,
		HasROI:    ok,
	}
}

// Summaries builds summaries for every asset in state order.
func Summaries(state model.BusinessState) []Summary {
	out := make([]Summary, 0, len(state.Assets))
	for _, a := range state.Assets {
		out = append(out, Summarize(a, state.Transactions))
	}
	return out
}
