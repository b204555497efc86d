package ledger

import (
	"fmt"

	"github.com/floraledger/flora/internal/categories"
	"github.com/floraledger/flora/internal/model"
)

// Book is the ledger store: the single owned copy of the business state.
// Every mutation validates against the prior state and then swaps in a new
// state, so readers never see a half-applied change. A Book is not safe for
// concurrent use.
type Book struct {
	state     model.BusinessState
	catalogue *categories.Catalogue
}

// NewBook wraps a state. A nil catalogue uses the default categories.
func NewBook(state model.BusinessState, catalogue *categories.Catalogue) *Book {
	if catalogue == nil {
		catalogue = categories.Default()
	}
	return &Book{state: state.Clone(), catalogue: catalogue}
}

// State returns a copy of the current state.
func (b *Book) State() model.BusinessState {
	return b.state.Clone()
}

// Catalogue returns the category table the book validates against.
func (b *Book) Catalogue() *categories.Catalogue {
	return b.catalogue
}

// Commit validates a batch and, if it passes, places its records at the
// front of the ledger, newest first.
func (b *Book) Commit(batch Batch) error {
	if errs := ValidateBatch(b.state, batch, b.catalogue); len(errs) > 0 {
		return errs
	}

	next := model.BusinessState{
		Transactions: make([]model.Transaction, 0, len(batch.Transactions)+len(b.state.Transactions)),
		Assets:       make([]model.Asset, 0, len(batch.Assets)+len(b.state.Assets)),
		Settings:     b.state.Settings,
	}
	for i := len(batch.Transactions) - 1; i >= 0; i-- {
		next.Transactions = append(next.Transactions, batch.Transactions[i])
	}
	next.Transactions = append(next.Transactions, b.state.Transactions...)
	for i := len(batch.Assets) - 1; i >= 0; i-- {
		next.Assets = append(next.Assets, batch.Assets[i])
	}
	next.Assets = append(next.Assets, b.state.Assets...)

	b.state = next
	return nil
}

// Remove deletes a transaction by id. It reports whether anything was
// removed; related rows are left in place.
func (b *Book) Remove(txID string) bool {
	idx := -1
	for i, t := range b.state.Transactions {
		if t.ID == txID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	next := make([]model.Transaction, 0, len(b.state.Transactions)-1)
	next = append(next, b.state.Transactions[:idx]...)
	next = append(next, b.state.Transactions[idx+1:]...)
	b.state.Transactions = next
	return true
}

// SetStatus moves an asset to a new status. Unknown ids are ignored and
// reported as unchanged.
func (b *Book) SetStatus(assetID string, status model.AssetStatus) (bool, error) {
	for i, a := range b.state.Assets {
		if a.ID != assetID {
			continue
		}
		if !a.Status.CanTransition(status) {
			return false, Errors{{
				Rule:        RuleTransition,
				Ref:         assetID,
				Description: fmt.Sprintf("cannot move asset from %s to %s", a.Status, status),
			}}
		}
		if a.Status == status {
			return false, nil
		}
		assets := make([]model.Asset, len(b.state.Assets))
		copy(assets, b.state.Assets)
		assets[i].Status = status
		b.state.Assets = assets
		return true, nil
	}
	return false, nil
}

// SetSettings replaces the rate record. Existing transactions keep the
// amounts they were created with.
func (b *Book) SetSettings(s model.Settings) error {
	if errs := ValidateSettings(s); len(errs) > 0 {
		return errs
	}
	b.state.Settings = s
	return nil
}

// Replace swaps the whole state, as done by a restore or reset.
func (b *Book) Replace(state model.BusinessState) {
	b.state = state.Clone()
}
