package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraledger/flora/internal/model"
)

func TestBook_CommitPrependsNewestFirst(t *testing.T) {
	b := NewBook(model.NewBusinessState(model.DefaultSettings()), nil)

	require.NoError(t, b.Commit(Batch{Assets: []model.Asset{testAsset("a1", "50", "10")}}))
	require.NoError(t, b.Commit(Batch{Transactions: []model.Transaction{
		cogsRow("t1", "a1", "10"),
		cogsRow("t2", "a1", "5"),
	}}))
	require.NoError(t, b.Commit(Batch{Transactions: []model.Transaction{cogsRow("t3", "a1", "1")}}))

	state := b.State()
	ids := make([]string, len(state.Transactions))
	for i, tx := range state.Transactions {
		ids[i] = tx.ID
	}
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids)
}

func TestBook_CommitIsAtomic(t *testing.T) {
	b := NewBook(model.NewBusinessState(model.DefaultSettings()), nil)
	require.NoError(t, b.Commit(Batch{Assets: []model.Asset{testAsset("a1", "20", "0")}}))

	err := b.Commit(Batch{Transactions: []model.Transaction{
		cogsRow("t1", "a1", "15"),
		cogsRow("t2", "a1", "15"),
	}})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has(RuleBasis))
	assert.Empty(t, b.State().Transactions)
}

func TestBook_StateIsACopy(t *testing.T) {
	b := NewBook(model.NewBusinessState(model.DefaultSettings()), nil)
	require.NoError(t, b.Commit(Batch{Assets: []model.Asset{testAsset("a1", "20", "0")}}))

	s := b.State()
	s.Assets[0].Name = "mutated"
	assert.Equal(t, "Monstera a1", b.State().Assets[0].Name)
}

func TestBook_Remove(t *testing.T) {
	b := NewBook(model.NewBusinessState(model.DefaultSettings()), nil)
	require.NoError(t, b.Commit(Batch{Assets: []model.Asset{testAsset("a1", "20", "0")}}))
	require.NoError(t, b.Commit(Batch{Transactions: []model.Transaction{cogsRow("t1", "a1", "5"), cogsRow("t2", "a1", "5")}}))

	assert.True(t, b.Remove("t1"))
	assert.False(t, b.Remove("t1"))
	assert.False(t, b.Remove("missing"))

	state := b.State()
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "t2", state.Transactions[0].ID)
}

func TestBook_SetStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    model.AssetStatus
		to      model.AssetStatus
		changed bool
		wantErr bool
	}{
		{"mother to for sale", model.StatusMother, model.StatusForSale, true, false},
		{"mother to sold", model.StatusMother, model.StatusSold, true, false},
		{"for sale to sold", model.StatusForSale, model.StatusSold, true, false},
		{"sold to archived", model.StatusSold, model.StatusArchived, true, false},
		{"same state", model.StatusForSale, model.StatusForSale, false, false},
		{"sold back to mother", model.StatusSold, model.StatusMother, false, true},
		{"out of archive", model.StatusArchived, model.StatusForSale, false, true},
		{"unknown status", model.StatusMother, "COMPOST", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAsset("a1", "20", "0")
			a.Status = tt.from
			state := model.NewBusinessState(model.DefaultSettings())
			state.Assets = []model.Asset{a}
			b := NewBook(state, nil)

			changed, err := b.SetStatus("a1", tt.to)
			assert.Equal(t, tt.changed, changed)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.from, b.State().Assets[0].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, b.State().Assets[0].Status)
		})
	}
}

func TestBook_SetStatusUnknownAsset(t *testing.T) {
	b := NewBook(model.NewBusinessState(model.DefaultSettings()), nil)
	changed, err := b.SetStatus("ghost", model.StatusSold)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestBook_SetSettings(t *testing.T) {
	b := NewBook(model.NewBusinessState(model.DefaultSettings()), nil)

	s := model.DefaultSettings()
	s.MarketplaceFeeRate = dec("12")
	require.NoError(t, b.SetSettings(s))
	assert.True(t, b.State().Settings.MarketplaceFeeRate.Equal(dec("12")))

	s.FederalSETaxRate = dec("150")
	require.Error(t, b.SetSettings(s))
	assert.True(t, b.State().Settings.FederalSETaxRate.Equal(dec("15.3")))
}
