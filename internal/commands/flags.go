package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/model"
)

const dateFormat = "2006-01-02"

// today is the current calendar date at UTC midnight.
func today() time.Time {
	return model.CalendarDate(time.Now())
}

// parseDate parses YYYY-MM-DD; an empty string is today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return today(), nil
	}
	d, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", flag, s, err)
	}
	return d, nil
}

func normalize(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

func parseSource(s string) (model.Source, error) {
	src := model.Source(normalize(s))
	if !src.Valid() {
		return "", fmt.Errorf("unknown source %q (want one of %s)", s, joinEnum(model.Sources))
	}
	return src, nil
}

func parseStatus(s string) (model.AssetStatus, error) {
	st := model.AssetStatus(normalize(s))
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want MOTHER, FOR_SALE, SOLD or ARCHIVED)", s)
	}
	return st, nil
}

func parseCategory(s string) (model.Category, error) {
	c := model.Category(normalize(s))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (want one of %s)", s, joinEnum(model.Categories))
	}
	return c, nil
}

// parseType parses INCOME or EXPENSE; an empty string is left to the
// category default.
func parseType(s string) (model.TxType, error) {
	if s == "" {
		return "", nil
	}
	t := model.TxType(normalize(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown type %q (want INCOME or EXPENSE)", s)
	}
	return t, nil
}

func joinEnum[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
