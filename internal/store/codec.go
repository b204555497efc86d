// Package store serializes the business state and keeps it in a key-value
// backend under a fixed namespace.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/model"
)

// FormatVersion is written into every encoded document.
const FormatVersion = 3

const dateFormat = "2006-01-02"

type document struct {
	Version      int               `json:"version,omitempty"`
	Transactions []transactionJSON `json:"transactions"`
	Assets       []assetJSON       `json:"assets"`
	Plants       []assetJSON       `json:"plants,omitempty"` // legacy
	Settings     *settingsJSON     `json:"settings"`
}

type transactionJSON struct {
	ID               string          `json:"id"`
	Date             string          `json:"date"`
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Source           string          `json:"source"`
	LinkedAssetID    string          `json:"linkedAssetId,omitempty"`
	LinkedPlantID    string          `json:"linkedPlantId,omitempty"` // legacy
	IsMarketplaceFee bool            `json:"isMarketplaceFee,omitempty"`
	IsPalmstreetFee  bool            `json:"isPalmstreetFee,omitempty"` // legacy
}

type assetJSON struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	AcquisitionDate  string           `json:"acquisitionDate,omitempty"`
	PurchaseDate     string           `json:"purchaseDate,omitempty"` // legacy
	Source           string           `json:"source"`
	AcquisitionPrice *decimal.Decimal `json:"acquisitionPrice,omitempty"`
	PurchasePrice    *decimal.Decimal `json:"purchasePrice,omitempty"` // legacy
	ImportFees       *decimal.Decimal `json:"importFees,omitempty"`
	InitialBasis     *decimal.Decimal `json:"initialBasis,omitempty"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
}

type settingsJSON struct {
	StateTaxRate       *decimal.Decimal `json:"stateTaxRate,omitempty"`
	FederalSETaxRate   *decimal.Decimal `json:"federalSETaxRate,omitempty"`
	MarketplaceFeeRate *decimal.Decimal `json:"marketplaceFeeRate,omitempty"`
	VATaxRate          *decimal.Decimal `json:"vaTaxRate,omitempty"`         // legacy
	FedTaxRate         *decimal.Decimal `json:"fedTaxRate,omitempty"`        // legacy
	PalmstreetFeeRate  *decimal.Decimal `json:"palmstreetFeeRate,omitempty"` // legacy
}

// Encode serializes a state. The output is indented JSON using the current
// key names.
func Encode(state model.BusinessState) ([]byte, error) {
	doc := document{
		Version:      FormatVersion,
		Transactions: make([]transactionJSON, len(state.Transactions)),
		Assets:       make([]assetJSON, len(state.Assets)),
		Settings: &settingsJSON{
			StateTaxRate:       ptr(state.Settings.StateTaxRate),
			FederalSETaxRate:   ptr(state.Settings.FederalSETaxRate),
			MarketplaceFeeRate: ptr(state.Settings.MarketplaceFeeRate),
		},
	}
	for i, t := range state.Transactions {
		doc.Transactions[i] = transactionJSON{
			ID:               t.ID,
			Date:             t.Date.Format(dateFormat),
			Type:             string(t.Type),
			Category:         string(t.Category),
			Description:      t.Description,
			Amount:           t.Amount,
			Source:           string(t.Source),
			LinkedAssetID:    t.LinkedAssetID,
			IsMarketplaceFee: t.IsMarketplaceFee,
		}
	}
	for i, a := range state.Assets {
		doc.Assets[i] = assetJSON{
			ID:               a.ID,
			Name:             a.Name,
			AcquisitionDate:  a.AcquisitionDate.Format(dateFormat),
			Source:           string(a.Source),
			AcquisitionPrice: ptr(a.AcquisitionPrice),
			ImportFees:       ptr(a.ImportFees),
			InitialBasis:     ptr(a.InitialBasis),
			Status:           string(a.Status),
			Notes:            a.Notes,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Decode parses a serialized state. Documents written by the original
// browser app (plants, linkedPlantId, vaTaxRate, ...) are accepted. Missing
// settings fall back to the defaults. Any structural problem fails the
// whole decode.
func Decode(data []byte) (model.BusinessState, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.BusinessState{}, fmt.Errorf("decoding state: %w", err)
	}

	state := model.NewBusinessState(doc.Settings.toModel())

	for i, tj := range doc.Transactions {
		t, err := tj.toModel()
		if err != nil {
			return model.BusinessState{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		state.Transactions = append(state.Transactions, t)
	}

	assets := doc.Assets
	if len(assets) == 0 {
		assets = doc.Plants
	}
	for i, aj := range assets {
		a, err := aj.toModel()
		if err != nil {
			return model.BusinessState{}, fmt.Errorf("asset %d: %w", i, err)
		}
		state.Assets = append(state.Assets, a)
	}
	return state, nil
}

func (tj transactionJSON) toModel() (model.Transaction, error) {
	if tj.ID == "" {
		return model.Transaction{}, fmt.Errorf("missing id")
	}
	d, err := parseDate(tj.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	t := model.Transaction{
		ID:               tj.ID,
		Date:             d,
		Type:             model.TxType(tj.Type),
		Category:         model.Category(tj.Category),
		Description:      tj.Description,
		Amount:           tj.Amount,
		Source:           model.Source(tj.Source),
		LinkedAssetID:    firstNonEmpty(tj.LinkedAssetID, tj.LinkedPlantID),
		IsMarketplaceFee: tj.IsMarketplaceFee || tj.IsPalmstreetFee,
	}
	switch {
	case !t.Type.Valid():
		return model.Transaction{}, fmt.Errorf("%s: unknown type %q", t.ID, tj.Type)
	case !t.Category.Valid():
		return model.Transaction{}, fmt.Errorf("%s: unknown category %q", t.ID, tj.Category)
	case !t.Source.Valid():
		return model.Transaction{}, fmt.Errorf("%s: unknown source %q", t.ID, tj.Source)
	case t.Amount.IsNegative():
		return model.Transaction{}, fmt.Errorf("%s: negative amount %s", t.ID, t.Amount)
	}
	return t, nil
}

func (aj assetJSON) toModel() (model.Asset, error) {
	if aj.ID == "" {
		return model.Asset{}, fmt.Errorf("missing id")
	}
	d, err := parseDate(firstNonEmpty(aj.AcquisitionDate, aj.PurchaseDate))
	if err != nil {
		return model.Asset{}, err
	}
	price := pick(aj.AcquisitionPrice, aj.PurchasePrice, decimal.Zero)
	fees := pick(aj.ImportFees, nil, decimal.Zero)
	a := model.Asset{
		ID:               aj.ID,
		Name:             aj.Name,
		AcquisitionDate:  d,
		Source:           model.Source(aj.Source),
		AcquisitionPrice: price,
		ImportFees:       fees,
		InitialBasis:     pick(aj.InitialBasis, nil, price.Add(fees)),
		Status:           model.AssetStatus(aj.Status),
		Notes:            aj.Notes,
	}
	switch {
	case !a.Source.Valid():
		return model.Asset{}, fmt.Errorf("%s: unknown source %q", a.ID, aj.Source)
	case !a.Status.Valid():
		return model.Asset{}, fmt.Errorf("%s: unknown status %q", a.ID, aj.Status)
	}
	return a, nil
}

func (s *settingsJSON) toModel() model.Settings {
	def := model.DefaultSettings()
	if s == nil {
		return def
	}
	return model.Settings{
		StateTaxRate:       pick(s.StateTaxRate, s.VATaxRate, def.StateTaxRate),
		FederalSETaxRate:   pick(s.FederalSETaxRate, s.FedTaxRate, def.FederalSETaxRate),
		MarketplaceFeeRate: pick(s.MarketplaceFeeRate, s.PalmstreetFeeRate, def.MarketplaceFeeRate),
	}
}

// parseDate accepts a bare date or a full RFC 3339 timestamp; both land on
// UTC midnight of the calendar date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if t, err := time.Parse(dateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return model.CalendarDate(t), nil
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func pick(current, legacy *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if current != nil {
		return *current
	}
	if legacy != nil {
		return *legacy
	}
	return fallback
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
