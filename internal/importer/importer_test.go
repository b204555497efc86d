package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraledger/flora/internal/model"
)

func parseChaseFixture(t *testing.T) []Line {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "chase_checking.csv"))
	require.NoError(t, err)
	defer f.Close()

	lines, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return lines
}

func TestChaseParser_Parse(t *testing.T) {
	lines := parseChaseFixture(t)
	require.Len(t, lines, 6)

	assert.Equal(t, "USPS PO 5123 POSTAGE", lines[0].Description)
	assert.Equal(t, "-18.45", lines[0].Amount.StringFixed(2))
	assert.Equal(t, 2025, lines[0].Date.Year())
	assert.Equal(t, 3, lines[0].Date.Day())

	assert.Equal(t, "PLANT SWAP WORKSHOP FEE", lines[3].Description)
	assert.Equal(t, "150.00", lines[3].Amount.StringFixed(2))

	assert.Equal(t, 22, lines[5].Date.Day())
}

func TestChaseParser_Reference(t *testing.T) {
	lines := parseChaseFixture(t)
	assert.Equal(t, "chase_20250103_USPSPO5123", lines[0].Reference)
}

func TestChaseParser_Errors(t *testing.T) {
	header := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n", "parsing date"},
		{"bad amount", "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n", "parsing amount"},
		{"short row", "DEBIT,01/03/2025,desc\n", "reading chase CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(header + tt.row))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChaseParser_HeaderOnly(t *testing.T) {
	lines, err := (&ChaseParser{}).Parse(strings.NewReader("Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"))
	require.NoError(t, err)
	assert.Nil(t, lines)
}

func TestSimpleParser_Parse(t *testing.T) {
	csv := "Date,Description,Amount\n2025-02-01, Nursery pots ,-24.00\n2025-02-03,Cutting sale at market,35\n"
	lines, err := (&SimpleParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Nursery pots", lines[0].Description)
	assert.True(t, lines[1].Amount.IsPositive())
	assert.Equal(t, "simple_20250203_Cuttingsal", lines[1].Reference)
}

func TestMapping_Params(t *testing.T) {
	lines := parseChaseFixture(t)
	m := Mapping{ExpenseCategory: model.CategorySupplies, IncomeCategory: model.CategoryOther, Source: model.SourceLocal}

	params := m.Params(lines)
	require.Len(t, params, 5, "zero-amount service fee is skipped")

	assert.Equal(t, model.TxExpense, params[0].Type)
	assert.Equal(t, model.CategorySupplies, params[0].Category)
	assert.Equal(t, "18.45", params[0].Amount.StringFixed(2), "expenses are booked as positive amounts")
	assert.Equal(t, model.SourceLocal, params[0].Source)

	assert.Equal(t, model.TxIncome, params[3].Type)
	assert.Equal(t, model.CategoryOther, params[3].Category)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("CHASE"))
	assert.Nil(t, r.Get("nonexistent"))
	assert.Equal(t, []string{"chase", "simple"}, r.Formats())
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, InboxDir)
	require.NoError(t, os.MkdirAll(filepath.Join(inbox, "imported"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "jan.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "notes.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "imported", "dec.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "jan.csv", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_NoInbox(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, InboxDir)
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "jan.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "jan.csv"))

	_, err := os.Stat(filepath.Join(inbox, "jan.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(inbox, "imported", "jan.csv"))
	assert.NoError(t, err)
}
