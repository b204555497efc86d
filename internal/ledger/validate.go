package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/basis"
	"github.com/floraledger/flora/internal/categories"
	"github.com/floraledger/flora/internal/model"
)

// Rule names the constraint a ValidationError reports.
type Rule string

const (
	RuleRequired   Rule = "required"
	RuleAmount     Rule = "amount"
	RuleEnum       Rule = "enum"
	RuleCategory   Rule = "category"
	RuleLink       Rule = "link"
	RuleBasis      Rule = "basis"       // COGS never exceeds initial basis
	RuleFee        Rule = "fee"         // marketplace sales carry their fee row
	RuleUniqueID   Rule = "unique-id"   // ids are never reused
	RuleTransition Rule = "transition"
	RuleRate       Rule = "rate"
)

// ValidationError describes a single rejected field or invariant violation.
type ValidationError struct {
	Rule        Rule
	Ref         string // id or field the error is about
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.Ref, e.Description)
}

// Errors is a non-empty list of validation failures returned as one error.
type Errors []ValidationError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether any error in the list concerns rule r.
func (es Errors) Has(r Rule) bool {
	for _, e := range es {
		if e.Rule == r {
			return true
		}
	}
	return false
}

// Batch is a group of new records committed atomically. Transactions are in
// creation order.
type Batch struct {
	Assets       []model.Asset
	Transactions []model.Transaction
}

var hundred = decimal.NewFromInt(100)

// ValidateBatch checks a batch against the state it will be added to. All
// violations are reported, not only the first.
func ValidateBatch(state model.BusinessState, b Batch, catalogue *categories.Catalogue) Errors {
	var errs Errors

	// Unique ids across existing and new records.
	seen := make(map[string]bool, len(state.Transactions)+len(state.Assets))
	for _, t := range state.Transactions {
		seen[t.ID] = true
	}
	for _, a := range state.Assets {
		seen[a.ID] = true
	}
	checkID := func(id string) {
		if id == "" {
			errs = append(errs, ValidationError{Rule: RuleRequired, Ref: "id", Description: "id must not be empty"})
			return
		}
		if seen[id] {
			errs = append(errs, ValidationError{Rule: RuleUniqueID, Ref: id, Description: "id already used"})
		}
		seen[id] = true
	}

	assets := make(map[string]model.Asset, len(state.Assets)+len(b.Assets))
	for _, a := range state.Assets {
		assets[a.ID] = a
	}

	for _, a := range b.Assets {
		checkID(a.ID)
		errs = append(errs, validateAsset(a)...)
		assets[a.ID] = a
	}

	for _, t := range b.Transactions {
		checkID(t.ID)
		errs = append(errs, validateTransaction(t, catalogue)...)
		if t.LinkedAssetID != "" {
			if _, ok := assets[t.LinkedAssetID]; !ok {
				errs = append(errs, ValidationError{Rule: RuleLink, Ref: t.ID, Description: fmt.Sprintf("unknown asset %s", t.LinkedAssetID)})
			}
		} else if t.Category == model.CategoryCOGS {
			errs = append(errs, ValidationError{Rule: RuleLink, Ref: t.ID, Description: "basis allocation must reference an asset"})
		}
	}

	errs = append(errs, checkBasis(state.Transactions, b.Transactions, assets)...)
	errs = append(errs, checkFees(b.Transactions, state.Settings.MarketplaceFeeRate)...)
	return errs
}

func validateAsset(a model.Asset) Errors {
	var errs Errors
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, ValidationError{Rule: RuleRequired, Ref: a.ID, Description: "asset name must not be empty"})
	}
	if a.AcquisitionPrice.IsNegative() {
		errs = append(errs, ValidationError{Rule: RuleAmount, Ref: a.ID, Description: fmt.Sprintf("acquisition price %s is negative", a.AcquisitionPrice)})
	}
	if a.ImportFees.IsNegative() {
		errs = append(errs, ValidationError{Rule: RuleAmount, Ref: a.ID, Description: fmt.Sprintf("import fees %s are negative", a.ImportFees)})
	}
	if !a.InitialBasis.Equal(a.AcquisitionPrice.Add(a.ImportFees)) {
		errs = append(errs, ValidationError{Rule: RuleBasis, Ref: a.ID, Description: "initial basis must equal acquisition price plus import fees"})
	}
	if !a.Source.Valid() {
		errs = append(errs, ValidationError{Rule: RuleEnum, Ref: a.ID, Description: fmt.Sprintf("unknown source %q", a.Source)})
	}
	if !a.Status.Valid() {
		errs = append(errs, ValidationError{Rule: RuleEnum, Ref: a.ID, Description: fmt.Sprintf("unknown status %q", a.Status)})
	}
	return errs
}

func validateTransaction(t model.Transaction, catalogue *categories.Catalogue) Errors {
	var errs Errors
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, ValidationError{Rule: RuleRequired, Ref: t.ID, Description: "description must not be empty"})
	}
	if t.Amount.IsNegative() {
		errs = append(errs, ValidationError{Rule: RuleAmount, Ref: t.ID, Description: fmt.Sprintf("amount %s is negative", t.Amount)})
	}
	if t.Date.IsZero() {
		errs = append(errs, ValidationError{Rule: RuleRequired, Ref: t.ID, Description: "date must be set"})
	}
	if !t.Type.Valid() {
		errs = append(errs, ValidationError{Rule: RuleEnum, Ref: t.ID, Description: fmt.Sprintf("unknown type %q", t.Type)})
	}
	if !t.Source.Valid() {
		errs = append(errs, ValidationError{Rule: RuleEnum, Ref: t.ID, Description: fmt.Sprintf("unknown source %q", t.Source)})
	}
	if !t.Category.Valid() {
		errs = append(errs, ValidationError{Rule: RuleEnum, Ref: t.ID, Description: fmt.Sprintf("unknown category %q", t.Category)})
	} else if t.Type.Valid() && !catalogue.Allows(t.Category, t.Type) {
		errs = append(errs, ValidationError{Rule: RuleCategory, Ref: t.ID, Description: fmt.Sprintf("category %s cannot be %s", t.Category, t.Type)})
	}
	return errs
}

// checkBasis verifies that, for every asset receiving a COGS row in the
// batch, total COGS stays within the asset's initial basis.
func checkBasis(existing, added []model.Transaction, assets map[string]model.Asset) Errors {
	var errs Errors
	checked := make(map[string]bool)
	all := append(append([]model.Transaction{}, existing...), added...)
	for _, t := range added {
		if t.Category != model.CategoryCOGS || t.LinkedAssetID == "" || checked[t.LinkedAssetID] {
			continue
		}
		checked[t.LinkedAssetID] = true
		a, ok := assets[t.LinkedAssetID]
		if !ok {
			continue
		}
		used := basis.Used(all, a.ID)
		if used.GreaterThan(a.InitialBasis) {
			errs = append(errs, ValidationError{
				Rule:        RuleBasis,
				Ref:         a.ID,
				Description: fmt.Sprintf("allocated basis %s exceeds initial basis %s", used.StringFixed(2), a.InitialBasis.StringFixed(2)),
			})
		}
	}
	return errs
}

// checkFees pairs every marketplace sale in the batch with a fee row of the
// same date and the expected amount.
func checkFees(added []model.Transaction, rate decimal.Decimal) Errors {
	var errs Errors
	used := make([]bool, len(added))
	for _, sale := range added {
		if sale.Category != model.CategorySale || sale.Source != model.SourcePalmstreet {
			continue
		}
		want := MarketplaceFee(sale.Amount, rate)
		found := false
		for i, fee := range added {
			if used[i] || !fee.IsMarketplaceFee || fee.Category != model.CategoryFees {
				continue
			}
			if fee.Date.Equal(sale.Date) && fee.Amount.Equal(want) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, ValidationError{
				Rule:        RuleFee,
				Ref:         sale.ID,
				Description: fmt.Sprintf("marketplace sale needs a fee row of %s", want.StringFixed(2)),
			})
		}
	}
	return errs
}

// MarketplaceFee returns amount × rate / 100, unrounded.
func MarketplaceFee(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Shift(-2)
}

// ValidateSettings checks that every rate is a percentage in [0, 100].
func ValidateSettings(s model.Settings) Errors {
	var errs Errors
	check := func(name string, v decimal.Decimal) {
		if v.IsNegative() || v.GreaterThan(hundred) {
			errs = append(errs, ValidationError{Rule: RuleRate, Ref: name, Description: fmt.Sprintf("rate %s must be between 0 and 100", v)})
		}
	}
	check("stateTaxRate", s.StateTaxRate)
	check("federalSETaxRate", s.FederalSETaxRate)
	check("marketplaceFeeRate", s.MarketplaceFeeRate)
	return errs
}
