package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/basis"
	"github.com/floraledger/flora/internal/categories"
	"github.com/floraledger/flora/internal/id"
	"github.com/floraledger/flora/internal/metrics"
	"github.com/floraledger/flora/internal/model"
	"github.com/floraledger/flora/internal/tax"
)

// Persister stores a full snapshot of the state after each mutation.
type Persister interface {
	Save(ctx context.Context, state model.BusinessState) error
}

// Service is the transaction recorder: the only entry point that creates
// assets and transactions. It is not safe for concurrent use.
type Service struct {
	book      *Book
	ids       id.Generator
	persister Persister
	log       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides the default UUID generator.
func WithIDGenerator(g id.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithPersister sets where state snapshots go after each mutation.
func WithPersister(p Persister) Option {
	return func(s *Service) { s.persister = p }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithCatalogue overrides the category table.
func WithCatalogue(c *categories.Catalogue) Option {
	return func(s *Service) { s.book.catalogue = c }
}

// NewService creates a Service over a state.
func NewService(state model.BusinessState, opts ...Option) *Service {
	s := &Service{
		book: NewBook(state, nil),
		ids:  id.UUID{},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssetParams holds parameters for registering a new asset.
type AssetParams struct {
	Name             string
	AcquisitionPrice decimal.Decimal
	ImportFees       decimal.Decimal
	Date             time.Time
	Source           model.Source
	Status           model.AssetStatus // defaults to MOTHER
	Notes            string
}

// RecordAsset registers an asset and the purchase rows that capitalize its
// cost. The import fee row is always booked as an overseas cost.
func (s *Service) RecordAsset(ctx context.Context, params AssetParams) (model.Asset, error) {
	status := params.Status
	if status == "" {
		status = model.StatusMother
	}
	name := strings.TrimSpace(params.Name)
	params.Date = model.CalendarDate(params.Date)

	asset := model.Asset{
		ID:               s.ids.New(),
		Name:             name,
		AcquisitionDate:  params.Date,
		Source:           params.Source,
		AcquisitionPrice: params.AcquisitionPrice,
		ImportFees:       params.ImportFees,
		InitialBasis:     params.AcquisitionPrice.Add(params.ImportFees),
		Status:           status,
		Notes:            params.Notes,
	}

	batch := Batch{Assets: []model.Asset{asset}}
	if params.AcquisitionPrice.IsPositive() {
		batch.Transactions = append(batch.Transactions, model.Transaction{
			ID:            s.ids.New(),
			Date:          params.Date,
			Type:          model.TxExpense,
			Category:      model.CategoryPlantPurchase,
			Description:   "Asset Purchase: " + name,
			Amount:        params.AcquisitionPrice,
			Source:        params.Source,
			LinkedAssetID: asset.ID,
		})
	}
	if params.ImportFees.IsPositive() {
		batch.Transactions = append(batch.Transactions, model.Transaction{
			ID:            s.ids.New(),
			Date:          params.Date,
			Type:          model.TxExpense,
			Category:      model.CategoryImportFee,
			Description:   "Import/Phyto: " + name,
			Amount:        params.ImportFees,
			Source:        model.SourceOverseas,
			LinkedAssetID: asset.ID,
		})
	}

	if err := s.book.Commit(batch); err != nil {
		return model.Asset{}, err
	}
	s.log.Debug().Str("asset_id", asset.ID).Str("name", asset.Name).
		Str("basis", asset.InitialBasis.StringFixed(2)).Int("rows", len(batch.Transactions)).Msg("asset recorded")
	s.persist(ctx)
	return asset, nil
}

// SaleParams holds parameters for recording a sale.
type SaleParams struct {
	AssetID string // optional; required when Basis > 0
	Memo    string
	Amount  decimal.Decimal
	Basis   decimal.Decimal // requested allocation, clamped to remaining basis
	Source  model.Source
	Date    time.Time
}

// SaleResult reports the rows a sale produced.
type SaleResult struct {
	Sale      model.Transaction
	Fee       *model.Transaction
	COGS      *model.Transaction
	Requested decimal.Decimal
	Allocated decimal.Decimal
}

// Clamped reports whether the requested allocation was reduced.
func (r SaleResult) Clamped() bool {
	return r.Allocated.LessThan(r.Requested)
}

// RecordSale books a sale together with its marketplace fee and basis
// allocation in one batch. The allocation is clamped to the asset's
// remaining basis before the batch is built.
func (s *Service) RecordSale(ctx context.Context, params SaleParams) (SaleResult, error) {
	memo := strings.TrimSpace(params.Memo)
	params.Date = model.CalendarDate(params.Date)
	state := s.book.state

	var errs Errors
	if memo == "" {
		errs = append(errs, ValidationError{Rule: RuleRequired, Ref: "memo", Description: "sale memo must not be empty"})
	}
	if !params.Amount.IsPositive() {
		errs = append(errs, ValidationError{Rule: RuleAmount, Ref: "amount", Description: fmt.Sprintf("sale amount %s must be positive", params.Amount)})
	}
	if params.Basis.IsNegative() {
		errs = append(errs, ValidationError{Rule: RuleAmount, Ref: "basis", Description: fmt.Sprintf("basis allocation %s is negative", params.Basis)})
	}
	var asset model.Asset
	if params.AssetID != "" {
		a, ok := state.FindAsset(params.AssetID)
		if !ok {
			errs = append(errs, ValidationError{Rule: RuleLink, Ref: params.AssetID, Description: "unknown asset"})
		}
		asset = a
	} else if params.Basis.IsPositive() {
		errs = append(errs, ValidationError{Rule: RuleLink, Ref: "basis", Description: "basis allocation requires an asset"})
	}
	if len(errs) > 0 {
		return SaleResult{}, errs
	}

	result := SaleResult{Requested: params.Basis, Allocated: decimal.Zero}
	if params.AssetID != "" {
		result.Allocated = basis.Clamp(params.Basis, asset, state.Transactions)
	}

	sale := model.Transaction{
		ID:            s.ids.New(),
		Date:          params.Date,
		Type:          model.TxIncome,
		Category:      model.CategorySale,
		Description:   memo,
		Amount:        params.Amount,
		Source:        params.Source,
		LinkedAssetID: params.AssetID,
	}
	batch := Batch{Transactions: []model.Transaction{sale}}
	result.Sale = sale

	if params.Source == model.SourcePalmstreet {
		fee := model.Transaction{
			ID:               s.ids.New(),
			Date:             params.Date,
			Type:             model.TxExpense,
			Category:         model.CategoryFees,
			Description:      "Palmstreet Fee: " + memo,
			Amount:           MarketplaceFee(params.Amount, state.Settings.MarketplaceFeeRate),
			Source:           model.SourcePalmstreet,
			IsMarketplaceFee: true,
		}
		batch.Transactions = append(batch.Transactions, fee)
		result.Fee = &fee
	}

	if result.Allocated.IsPositive() {
		cogs := model.Transaction{
			ID:            s.ids.New(),
			Date:          params.Date,
			Type:          model.TxExpense,
			Category:      model.CategoryCOGS,
			Description:   "Basis Allocation: " + memo,
			Amount:        result.Allocated,
			Source:        model.SourceOther,
			LinkedAssetID: params.AssetID,
		}
		batch.Transactions = append(batch.Transactions, cogs)
		result.COGS = &cogs
	}

	if err := s.book.Commit(batch); err != nil {
		return SaleResult{}, err
	}
	ev := s.log.Debug().Str("sale_id", sale.ID).Str("amount", sale.Amount.StringFixed(2)).Int("rows", len(batch.Transactions))
	if result.Clamped() {
		ev = ev.Str("requested_basis", result.Requested.StringFixed(2)).Str("allocated_basis", result.Allocated.StringFixed(2))
	}
	ev.Msg("sale recorded")
	s.persist(ctx)
	return result, nil
}

// TransactionParams holds parameters for a manually entered transaction.
type TransactionParams struct {
	Date        time.Time
	Type        model.TxType // defaults to the category's first allowed type
	Category    model.Category
	Description string
	Amount      decimal.Decimal
	Source      model.Source
	AssetID     string
}

// RecordTransaction books a manual entry. Sales are routed through
// RecordSale so marketplace fees are never skipped.
func (s *Service) RecordTransaction(ctx context.Context, params TransactionParams) ([]model.Transaction, error) {
	if params.Category == model.CategorySale && s.manualType(params) == model.TxIncome {
		res, err := s.RecordSale(ctx, SaleParams{
			AssetID: params.AssetID,
			Memo:    params.Description,
			Amount:  params.Amount,
			Source:  params.Source,
			Date:    params.Date,
		})
		if err != nil {
			return nil, err
		}
		out := []model.Transaction{res.Sale}
		if res.Fee != nil {
			out = append(out, *res.Fee)
		}
		return out, nil
	}

	t, errs := s.manualRow(params)
	if len(errs) > 0 {
		return nil, errs
	}
	if err := s.book.Commit(Batch{Transactions: []model.Transaction{t}}); err != nil {
		return nil, err
	}
	s.log.Debug().Str("tx_id", t.ID).Str("category", string(t.Category)).Msg("transaction recorded")
	s.persist(ctx)
	return []model.Transaction{t}, nil
}

// ImportTransactions books a list of manual entries as one batch: either
// every row is committed or none is. Sales are rejected because their fee
// rows would be skipped.
func (s *Service) ImportTransactions(ctx context.Context, params []TransactionParams) ([]model.Transaction, error) {
	var errs Errors
	rows := make([]model.Transaction, 0, len(params))
	for i, p := range params {
		if p.Category == model.CategorySale && s.manualType(p) == model.TxIncome {
			errs = append(errs, ValidationError{Rule: RuleCategory, Ref: fmt.Sprintf("row %d", i+1), Description: "sales must be recorded one at a time"})
			continue
		}
		t, rowErrs := s.manualRow(p)
		for _, e := range rowErrs {
			e.Ref = fmt.Sprintf("row %d: %s", i+1, e.Ref)
			errs = append(errs, e)
		}
		rows = append(rows, t)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := s.book.Commit(Batch{Transactions: rows}); err != nil {
		return nil, err
	}
	s.log.Info().Int("rows", len(rows)).Msg("transactions imported")
	s.persist(ctx)
	return rows, nil
}

// manualType is the entry's type, falling back to the category default.
func (s *Service) manualType(params TransactionParams) model.TxType {
	if params.Type != "" {
		return params.Type
	}
	if t, ok := s.book.catalogue.DefaultType(params.Category); ok {
		return t
	}
	return ""
}

// manualRow builds the transaction for a manual entry. Structural checks
// are left to the batch validation in Commit.
func (s *Service) manualRow(params TransactionParams) (model.Transaction, Errors) {
	var errs Errors
	if info, ok := s.book.catalogue.Get(params.Category); ok && !info.Manual {
		errs = append(errs, ValidationError{Rule: RuleCategory, Ref: string(params.Category), Description: "category cannot be entered manually"})
	}
	if !params.Amount.IsPositive() {
		errs = append(errs, ValidationError{Rule: RuleAmount, Ref: "amount", Description: fmt.Sprintf("amount %s must be positive", params.Amount)})
	}
	if len(errs) > 0 {
		return model.Transaction{}, errs
	}
	return model.Transaction{
		ID:            s.ids.New(),
		Date:          model.CalendarDate(params.Date),
		Type:          s.manualType(params),
		Category:      params.Category,
		Description:   strings.TrimSpace(params.Description),
		Amount:        params.Amount,
		Source:        params.Source,
		LinkedAssetID: params.AssetID,
	}, nil
}

// DeleteTransaction removes a transaction. Unknown ids are a no-op. Rows
// generated alongside it (fees, basis allocation) are kept.
func (s *Service) DeleteTransaction(ctx context.Context, txID string) bool {
	if !s.book.Remove(txID) {
		return false
	}
	s.log.Debug().Str("tx_id", txID).Msg("transaction deleted")
	s.persist(ctx)
	return true
}

// SetAssetStatus moves an asset through its lifecycle. Unknown ids are a
// no-op.
func (s *Service) SetAssetStatus(ctx context.Context, assetID string, status model.AssetStatus) error {
	changed, err := s.book.SetStatus(assetID, status)
	if err != nil {
		return err
	}
	if changed {
		s.log.Debug().Str("asset_id", assetID).Str("status", string(status)).Msg("asset status changed")
		s.persist(ctx)
	}
	return nil
}

// UpdateSettings replaces the configured rates.
func (s *Service) UpdateSettings(ctx context.Context, settings model.Settings) error {
	if err := s.book.SetSettings(settings); err != nil {
		return err
	}
	s.log.Debug().Msg("settings updated")
	s.persist(ctx)
	return nil
}

// Reset wipes all transactions and assets but keeps the current settings.
func (s *Service) Reset(ctx context.Context) {
	s.book.Replace(model.NewBusinessState(s.book.state.Settings))
	s.log.Info().Msg("ledger reset")
	s.persist(ctx)
}

// Restore replaces the whole state with a previously exported one.
func (s *Service) Restore(ctx context.Context, state model.BusinessState) error {
	if errs := ValidateSettings(state.Settings); len(errs) > 0 {
		return errs
	}
	state = state.Clone()
	for i := range state.Transactions {
		state.Transactions[i].Date = model.CalendarDate(state.Transactions[i].Date)
	}
	for i := range state.Assets {
		state.Assets[i].AcquisitionDate = model.CalendarDate(state.Assets[i].AcquisitionDate)
	}
	s.book.Replace(state)
	s.log.Info().Int("transactions", len(state.Transactions)).Int("assets", len(state.Assets)).Msg("ledger restored")
	s.persist(ctx)
	return nil
}

func (s *Service) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.book.State()); err != nil {
		s.log.Warn().Err(err).Msg("persisting ledger failed; in-memory state kept")
	}
}

// State returns a copy of the current state.
func (s *Service) State() model.BusinessState {
	return s.book.State()
}

// Settings returns the current rates.
func (s *Service) Settings() model.Settings {
	return s.book.state.Settings
}

// Totals aggregates the whole ledger.
func (s *Service) Totals() metrics.Totals {
	return s.TotalsFor(metrics.Filter{})
}

// TotalsFor aggregates the transactions matching f, e.g. one tax year.
func (s *Service) TotalsFor(f metrics.Filter) metrics.Totals {
	return metrics.NewAggregator(s.book.catalogue).Compute(f.Apply(s.book.state.Transactions))
}

// TaxEstimate derives the tax reserve from the whole ledger.
func (s *Service) TaxEstimate() tax.Estimate {
	return s.TaxEstimateFor(metrics.Filter{})
}

// TaxEstimateFor derives the tax reserve from the transactions matching f.
func (s *Service) TaxEstimateFor(f metrics.Filter) tax.Estimate {
	return tax.Compute(s.TotalsFor(f).NetProfitBeforeTax, s.book.state.Settings)
}

// Catalogue returns the category table entries are validated against.
func (s *Service) Catalogue() *categories.Catalogue {
	return s.book.catalogue
}

// RemainingBasis returns the unallocated basis of an asset.
func (s *Service) RemainingBasis(assetID string) (decimal.Decimal, bool) {
	return basis.RemainingBasis(s.book.state, assetID)
}

// AssetSummaries returns the basis view of every asset.
func (s *Service) AssetSummaries() []basis.Summary {
	return basis.Summaries(s.book.state)
}

// Transactions returns the transactions matching f, newest first.
func (s *Service) Transactions(f metrics.Filter) []model.Transaction {
	return f.Apply(s.book.state.Transactions)
}

// AssetQuery selects assets for listings.
type AssetQuery struct {
	Name            string // case-insensitive substring
	Status          model.AssetStatus
	Source          model.Source
	IncludeArchived bool
}

// Assets returns the assets matching q, newest first.
func (s *Service) Assets(q AssetQuery) []model.Asset {
	var out []model.Asset
	for _, a := range s.book.state.Assets {
		if a.Status == model.StatusArchived && !q.IncludeArchived && q.Status != model.StatusArchived {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.Source != "" && a.Source != q.Source {
			continue
		}
		if q.Name != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(q.Name)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ResolveTransactionID expands an id prefix to a full transaction id.
func (s *Service) ResolveTransactionID(prefix string) (string, error) {
	ids := make([]string, len(s.book.state.Transactions))
	for i, t := range s.book.state.Transactions {
		ids[i] = t.ID
	}
	return id.Resolve(prefix, ids)
}

// ResolveAssetID expands an id prefix to a full asset id.
func (s *Service) ResolveAssetID(prefix string) (string, error) {
	ids := make([]string, len(s.book.state.Assets))
	for i, a := range s.book.state.Assets {
		ids[i] = a.ID
	}
	return id.Resolve(prefix, ids)
}
