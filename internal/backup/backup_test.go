package backup

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraledger/flora/internal/export"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/store"
)

type stubLoader struct {
	state model.BusinessState
	err   error
	calls atomic.Int32
}

func (s *stubLoader) LoadStrict(context.Context) (model.BusinessState, error) {
	s.calls.Add(1)
	return s.state, s.err
}

func sampleState() model.BusinessState {
	state := model.NewBusinessState(model.DefaultSettings())
	state.Transactions = []model.Transaction{{
		ID:          "t1",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Type:        model.TxExpense,
		Category:    model.CategorySupplies,
		Description: "Pots",
		Amount:      decimal.NewFromInt(12),
		Source:      model.SourceLocal,
	}}
	return state
}

func fixedClock(y, m, d int) func() time.Time {
	return func() time.Time { return time.Date(y, time.Month(m), d, 2, 0, 0, 0, time.UTC) }
}

func TestRunOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	b := New(&stubLoader{state: sampleState()}, dir, 0, WithClock(fixedClock(2025, 6, 2)))

	path, err := b.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flora_ledger_backup_2025-06-02.json"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	state, err := export.ReadSnapshot(f)
	require.NoError(t, err)
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, "Pots", state.Transactions[0].Description)
}

func TestRunOnce_NothingStored(t *testing.T) {
	dir := t.TempDir()
	b := New(&stubLoader{err: store.ErrNotFound}, dir, 0)

	_, err := b.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)

	names, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRetention(t *testing.T) {
	dir := t.TempDir()
	loader := &stubLoader{state: sampleState()}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644))

	for day := 1; day <= 5; day++ {
		b := New(loader, dir, 3, WithClock(fixedClock(2025, 7, day)))
		_, err := b.RunOnce(context.Background())
		require.NoError(t, err)
	}

	names, err := New(loader, dir, 3).List()
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, "flora_ledger_backup_2025-07-03.json", filepath.Base(names[0]))
	assert.Equal(t, "flora_ledger_backup_2025-07-05.json", filepath.Base(names[2]))

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err, "unrelated files are never pruned")
}

func TestSameDayOverwrites(t *testing.T) {
	dir := t.TempDir()
	loader := &stubLoader{state: sampleState()}
	b := New(loader, dir, 0, WithClock(fixedClock(2025, 7, 1)))

	_, err := b.RunOnce(context.Background())
	require.NoError(t, err)
	_, err = b.RunOnce(context.Background())
	require.NoError(t, err)

	names, err := b.List()
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("0 2 * * *"))
	assert.NoError(t, Validate("@daily"))
	assert.Error(t, Validate("every day"))
	assert.Error(t, Validate("0 2 * *"))
}
