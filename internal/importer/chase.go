package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChaseParser parses Chase checking account CSV downloads.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. The header row is skipped.
func (p *ChaseParser) Parse(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	lines := make([]Line, 0, len(records)-1)
	for i, rec := range records[1:] {
		l, err := parseRow(rec[chaseColDate], chaseDateFormat, rec[chaseColDesc], rec[chaseColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		l.Reference = reference("chase", l)
		lines = append(lines, l)
	}
	return lines, nil
}

// SimpleParser reads a three-column Date,Description,Amount CSV with
// YYYY-MM-DD dates, the lowest common denominator of bank exports.
type SimpleParser struct{}

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads the CSV. The header row is skipped.
func (p *SimpleParser) Parse(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	lines := make([]Line, 0, len(records)-1)
	for i, rec := range records[1:] {
		l, err := parseRow(rec[0], "2006-01-02", rec[1], rec[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		l.Reference = reference("simple", l)
		lines = append(lines, l)
	}
	return lines, nil
}

func parseRow(dateStr, layout, desc, amountStr string) (Line, error) {
	date, err := time.Parse(layout, strings.TrimSpace(dateStr))
	if err != nil {
		return Line{}, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return Line{}, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	return Line{Date: date, Description: strings.TrimSpace(desc), Amount: amount}, nil
}

// reference builds an id like chase_20250103_GITHUBPROS.
func reference(format string, l Line) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, l.Description)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s", format, l.Date.Format("20060102"), prefix)
}
