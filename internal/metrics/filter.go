package metrics

import (
	"strings"
	"time"

	"github.com/floraledger/flora/internal/model"
)

// Filter selects transactions. Zero-valued fields match everything.
type Filter struct {
	Type     model.TxType
	Category model.Category
	AssetID  string
	From     time.Time // inclusive
	To       time.Time // inclusive
	Search   string    // case-insensitive substring of the description
}

// Match reports whether a transaction passes the filter.
func (f Filter) Match(t model.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.AssetID != "" && t.LinkedAssetID != f.AssetID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply returns the matching transactions, preserving order.
func (f Filter) Apply(txs []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Year returns a filter covering one calendar year.
func Year(y int) Filter {
	return Filter{
		From: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}
