package model

import "github.com/shopspring/decimal"

// Settings holds the configurable rates, all expressed as percentages.
type Settings struct {
	StateTaxRate       decimal.Decimal
	FederalSETaxRate   decimal.Decimal
	MarketplaceFeeRate decimal.Decimal
}

// DefaultSettings returns the rates a fresh ledger starts with.
func DefaultSettings() Settings {
	return Settings{
		StateTaxRate:       decimal.RequireFromString("5.75"),
		FederalSETaxRate:   decimal.RequireFromString("15.3"),
		MarketplaceFeeRate: decimal.NewFromInt(10),
	}
}

// BusinessState is the aggregate root of the ledger. Transactions and
// assets are ordered most-recent-first.
type BusinessState struct {
	Transactions []Transaction
	Assets       []Asset
	Settings     Settings
}

// NewBusinessState returns an empty state with the given settings.
func NewBusinessState(settings Settings) BusinessState {
	return BusinessState{
		Transactions: []Transaction{},
		Assets:       []Asset{},
		Settings:     settings,
	}
}

// Clone returns a copy whose slices can be modified independently.
func (s BusinessState) Clone() BusinessState {
	out := BusinessState{
		Transactions: make([]Transaction, len(s.Transactions)),
		Assets:       make([]Asset, len(s.Assets)),
		Settings:     s.Settings,
	}
	copy(out.Transactions, s.Transactions)
	copy(out.Assets, s.Assets)
	return out
}

// FindAsset returns the asset with the given ID.
func (s BusinessState) FindAsset(id string) (Asset, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

// FindTransaction returns the transaction with the given ID.
func (s BusinessState) FindTransaction(id string) (Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}
