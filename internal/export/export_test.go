package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraledger/flora/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTxs() []model.Transaction {
	return []model.Transaction{
		{ID: "t2", Date: date(2025, 4, 2), Type: model.TxExpense, Category: model.CategoryFees, Description: "Palmstreet Fee: Albo, top cutting", Amount: dec("3.5"), Source: model.SourcePalmstreet, IsMarketplaceFee: true},
		{ID: "t1", Date: date(2025, 4, 2), Type: model.TxIncome, Category: model.CategorySale, Description: "Albo, top cutting", Amount: dec("35"), Source: model.SourcePalmstreet},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTxs()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, `2025-04-02,EXPENSE,FEES,"Palmstreet Fee: Albo, top cutting",3.50,PALMSTREET`, lines[1])
	assert.Equal(t, `2025-04-02,INCOME,SALE,"Albo, top cutting",35.00,PALMSTREET`, lines[2])

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Albo, top cutting", records[2][colDesc])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestFileNames(t *testing.T) {
	d := date(2025, 11, 3)
	assert.Equal(t, "flora_ledger_export_2025-11-03.csv", CSVFileName(d))
	assert.Equal(t, "flora_ledger_backup_2025-11-03.json", SnapshotFileName(d))
}

func TestSnapshotRoundTrip(t *testing.T) {
	state := model.NewBusinessState(model.DefaultSettings())
	state.Transactions = sampleTxs()

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, state))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "t2", got.Transactions[0].ID)
	assert.True(t, got.Transactions[0].Amount.Equal(dec("3.5")))
	assert.True(t, got.Transactions[0].IsMarketplaceFee)
	assert.Empty(t, got.Assets)
}

func TestReadSnapshot_MissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		missing string
	}{
		{"no settings", `{"transactions": [], "assets": []}`, "settings"},
		{"no assets", `{"transactions": [], "settings": {}}`, "assets"},
		{"no transactions", `{"plants": [], "settings": {}}`, "transactions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tt.blob))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingKey)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestReadSnapshot_LegacyPlants(t *testing.T) {
	blob := `{"transactions": [], "plants": [{"id": "p1", "name": "Albo", "purchasePrice": 100, "purchaseDate": "2024-02-01", "source": "ONLINE", "importFees": 0, "status": "MOTHER"}], "settings": {"vaTaxRate": 5.75, "fedTaxRate": 15.3, "palmstreetFeeRate": 10}}`
	state, err := ReadSnapshot(strings.NewReader(blob))
	require.NoError(t, err)
	require.Len(t, state.Assets, 1)
	assert.True(t, state.Assets[0].InitialBasis.Equal(dec("100")))
}

func TestReadSnapshot_Invalid(t *testing.T) {
	_, err := ReadSnapshot(strings.NewReader("[1, 2]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing snapshot")

	_, err = ReadSnapshot(strings.NewReader(`{"transactions": [{"id": "x", "date": "bad"}], "assets": [], "settings": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid snapshot")
}
