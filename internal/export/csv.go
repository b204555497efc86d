// Package export renders the ledger for external tools: a flat CSV of
// transactions and a full JSON snapshot for backup and restore.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/floraledger/flora/internal/model"
)

// Header is the CSV header of a transaction export.
const Header = "Date,Type,Category,Description,Amount,Source"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colDate    = 0
	colType    = 1
	colCat     = 2
	colDesc    = 3
	colAmount  = 4
	colSource  = 5
)

// MarshalRow converts a transaction to a CSV row.
func MarshalRow(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.Format(dateFormat)
	row[colType] = string(t.Type)
	row[colCat] = string(t.Category)
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colSource] = string(t.Source)
	return row
}

// WriteCSV writes the header and one row per transaction, in ledger order.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txs {
		if err := cw.Write(MarshalRow(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFileName is the default name of a CSV export made on day d.
func CSVFileName(d time.Time) string {
	return "flora_ledger_export_" + d.Format(dateFormat) + ".csv"
}
