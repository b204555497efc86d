package commands_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraledger/flora/internal/export"
)

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runFlora(t, "init", dir, "--name", "Test Nursery")
	require.NoError(t, err, out)
	return dir
}

// flora runs a command against the project in dir and requires success.
func flora(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := runFlora(t, append([]string{"-C", dir}, args...)...)
	require.NoError(t, err, out)
	return out
}

var assetIDPattern = regexp.MustCompile(`Recorded asset (\S+) `)

func TestWorkflow_AssetSaleAndBasis(t *testing.T) {
	dir := initProject(t)

	out := flora(t, dir, "asset", "add", "--name", "Monstera Thai", "--price", "150", "--fees", "50",
		"--date", "2024-01-10", "--source", "overseas")
	assert.Contains(t, out, "(basis $200.00)")
	m := assetIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	assetID := m[1]

	out = flora(t, dir, "sale", "--asset", assetID, "--memo", "Monstera cutting",
		"--amount", "1000", "--basis", "500", "--date", "2024-03-01")
	assert.Contains(t, out, "Recorded sale")
	assert.Contains(t, out, "marketplace fee $100.00")
	assert.Contains(t, out, "basis allocated $200.00")
	assert.Contains(t, out, "requested basis $500.00 reduced to the $200.00 remaining")

	out = flora(t, dir, "txn", "list")
	assert.Contains(t, out, "Asset Purchase: Monstera Thai")
	assert.Contains(t, out, "Import/Phyto: Monstera Thai")
	assert.Contains(t, out, "Palmstreet Fee: Monstera cutting")
	assert.Contains(t, out, "Basis Allocation: Monstera cutting")

	out = flora(t, dir, "asset", "list")
	assert.Contains(t, out, "Monstera Thai")
	assert.Contains(t, out, "| $200.00 | $200.00 | $0.00 |")

	// A drained asset accepts no further allocation.
	out = flora(t, dir, "sale", "--asset", assetID, "--memo", "Second cutting",
		"--amount", "80", "--basis", "10", "--date", "2024-03-02")
	assert.Contains(t, out, "reduced to the $0.00 remaining")
	assert.NotContains(t, out, "basis allocated")

	out = flora(t, dir, "asset", "status", assetID, "sold")
	assert.Contains(t, out, "is SOLD")

	out, err := runFlora(t, "-C", dir, "asset", "status", assetID, "mother")
	require.Error(t, err)
	assert.Contains(t, out, "validation failed")
}

func TestWorkflow_TaxesOnManualIncome(t *testing.T) {
	dir := initProject(t)

	flora(t, dir, "txn", "add", "--category", "other", "--type", "income",
		"--desc", "Workshop", "--amount", "1000", "--date", "2024-05-01")

	out := flora(t, dir, "taxes")
	assert.Contains(t, out, "**$198.80**")
	assert.Contains(t, out, "**$801.20**")

	out = flora(t, dir, "summary", "--year", "2023")
	assert.Contains(t, out, "Test Nursery 2023")
	assert.Contains(t, out, "| Gross revenue | $0.00 |")

	out = flora(t, dir, "summary", "--year", "2024")
	assert.Contains(t, out, "| Gross revenue | $1,000.00 |")
}

func TestWorkflow_SettingsSet(t *testing.T) {
	dir := initProject(t)

	out := flora(t, dir, "settings", "set", "--marketplace-fee", "12.5")
	assert.Contains(t, out, "12.5%")
	assert.Contains(t, out, "5.75%")

	out, err := runFlora(t, "-C", dir, "settings", "set", "--state-tax", "150")
	require.Error(t, err)
	assert.Contains(t, out, "validation failed")

	_, err = runFlora(t, "-C", dir, "settings", "set")
	require.Error(t, err)
}

func TestWorkflow_ExportResetRestore(t *testing.T) {
	dir := initProject(t)
	flora(t, dir, "asset", "add", "--name", "Anthurium", "--price", "80", "--date", "2024-02-01")
	flora(t, dir, "txn", "add", "--category", "shipping", "--desc", "Heat packs", "--amount", "12.40", "--date", "2024-02-03")

	out := flora(t, dir, "export", "csv", "--out", "-")
	assert.Contains(t, out, export.Header)
	assert.Contains(t, out, "2024-02-03,EXPENSE,SHIPPING,Heat packs,12.40,OTHER")

	snapshot := filepath.Join(t.TempDir(), "snapshot.json")
	out = flora(t, dir, "export", "json", "--out", snapshot)
	assert.Contains(t, out, "Wrote "+snapshot)

	_, err := runFlora(t, "-C", dir, "reset")
	require.Error(t, err, "reset without --yes should fail")

	flora(t, dir, "reset", "--yes")
	out = flora(t, dir, "txn", "list")
	assert.Contains(t, out, "No transactions")

	out = flora(t, dir, "restore", snapshot, "--yes")
	assert.Contains(t, out, "Restored 2 transactions and 1 assets")
	out = flora(t, dir, "txn", "list", "--category", "shipping")
	assert.Contains(t, out, "Heat packs")
	assert.NotContains(t, out, "Asset Purchase")
}

func TestWorkflow_RestoreRejectsBadSnapshot(t *testing.T) {
	dir := initProject(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"transactions": []}`), 0o644))

	out, err := runFlora(t, "-C", dir, "restore", bad, "--yes")
	require.Error(t, err)
	assert.Contains(t, out, "invalid snapshot")
}

func TestWorkflow_DeleteTransaction(t *testing.T) {
	dir := initProject(t)
	out := flora(t, dir, "txn", "add", "--category", "supplies", "--desc", "Perlite", "--amount", "20")
	m := regexp.MustCompile(`Recorded (\S+) EXPENSE`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)

	_, err := runFlora(t, "-C", dir, "txn", "delete", m[1])
	require.Error(t, err, "delete without --yes should fail")

	out = flora(t, dir, "txn", "delete", m[1], "--yes")
	assert.Contains(t, out, "Deleted")
	out = flora(t, dir, "txn", "list")
	assert.NotContains(t, out, "Perlite")

	// Deleting again is a no-op, not an error.
	out = flora(t, dir, "txn", "delete", m[1], "--yes")
	assert.Contains(t, out, "nothing to delete")
}

func TestWorkflow_DeleteUnknownIDKeepsLedger(t *testing.T) {
	dir := initProject(t)
	flora(t, dir, "txn", "add", "--category", "supplies", "--desc", "Perlite", "--amount", "20")
	flora(t, dir, "txn", "add", "--category", "supplies", "--desc", "Pumice", "--amount", "15")

	// Ids are UUIDs, so a non-hex prefix matches nothing.
	out := flora(t, dir, "txn", "delete", "zz", "--yes")
	assert.Contains(t, out, "nothing to delete")
	out = flora(t, dir, "txn", "list")
	assert.Contains(t, out, "Perlite")
	assert.Contains(t, out, "Pumice")
}

func TestWorkflow_StatusUnknownAsset(t *testing.T) {
	dir := initProject(t)
	out := flora(t, dir, "asset", "status", "deadbeef", "sold")
	assert.Contains(t, out, "status unchanged")
}

func TestWorkflow_BackupRun(t *testing.T) {
	dir := initProject(t)
	out := flora(t, dir, "backup", "run")
	assert.Contains(t, out, "flora_ledger_backup_")

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWorkflow_ImportStatements(t *testing.T) {
	dir := initProject(t)
	inbox := filepath.Join(dir, "statements")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	statement := "Date,Description,Amount\n2025-02-01,Nursery pots,-24.00\n2025-02-03,Plant swap workshop,150\n"
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "feb.csv"), []byte(statement), 0o644))

	out := flora(t, dir, "import", "--format", "simple", "--expense-category", "supplies")
	assert.Contains(t, out, "Imported 2 transactions from feb.csv")

	_, err := os.Stat(filepath.Join(inbox, "imported", "feb.csv"))
	require.NoError(t, err)

	out = flora(t, dir, "txn", "list", "--category", "supplies")
	assert.Contains(t, out, "Nursery pots")

	out = flora(t, dir, "import")
	assert.Contains(t, out, "No statements")
}

func TestWorkflow_ImportRejectsSales(t *testing.T) {
	dir := initProject(t)
	statement := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(statement, []byte("Date,Description,Amount\n2025-02-03,Auction payout,150\n"), 0o644))

	out, err := runFlora(t, "-C", dir, "import", statement, "--format", "simple", "--income-category", "sale")
	require.Error(t, err)
	assert.Contains(t, out, "sales must be recorded one at a time")

	out = flora(t, dir, "txn", "list")
	assert.Contains(t, out, "No transactions")
}
