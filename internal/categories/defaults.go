package categories

import "github.com/floraledger/flora/internal/model"

// Treatment says how a category flows into the profit calculation.
type Treatment string

const (
	TreatmentRevenue        Treatment = "revenue"
	TreatmentCapitalized    Treatment = "capitalized" // folded into asset basis, recovered through COGS
	TreatmentCOGS           Treatment = "cogs"
	TreatmentMarketplaceFee Treatment = "marketplace_fee"
	TreatmentShipping       Treatment = "shipping"
	TreatmentOperating      Treatment = "operating"
)

// Info describes one ledger category.
type Info struct {
	Category  model.Category
	Label     string
	Types     []model.TxType // types a manual entry may use
	Treatment Treatment
	TaxLine   string // Schedule C line, "" when not deductible directly
	Manual    bool   // offered on the manual entry form
}

// DefaultCatalogue returns the built-in category table.
func DefaultCatalogue() []Info {
	expense := []model.TxType{model.TxExpense}
	return []Info{
		{Category: model.CategorySale, Label: "Revenue (Income)", Types: []model.TxType{model.TxIncome}, Treatment: TreatmentRevenue, TaxLine: "schedule_c_1", Manual: true},
		{Category: model.CategoryPlantPurchase, Label: "Inventory (Asset)", Types: expense, Treatment: TreatmentCapitalized, Manual: true},
		{Category: model.CategoryAccessoryPurchase, Label: "Accessories", Types: expense, Treatment: TreatmentOperating, TaxLine: "schedule_c_22", Manual: true},
		{Category: model.CategorySupplies, Label: "Supplies (Deductible)", Types: expense, Treatment: TreatmentOperating, TaxLine: "schedule_c_22", Manual: true},
		{Category: model.CategoryShipping, Label: "Logistics / Shipping", Types: expense, Treatment: TreatmentShipping, TaxLine: "schedule_c_27a", Manual: true},
		{Category: model.CategoryFees, Label: "Platform Fees", Types: expense, Treatment: TreatmentMarketplaceFee, TaxLine: "schedule_c_10", Manual: true},
		{Category: model.CategoryImportFee, Label: "Import / Phyto Fees", Types: expense, Treatment: TreatmentCapitalized, Manual: true},
		{Category: model.CategoryCOGS, Label: "Cost of Goods Sold", Types: expense, Treatment: TreatmentCOGS, TaxLine: "schedule_c_4"},
		{Category: model.CategoryTaxPayment, Label: "Tax Payment", Types: expense, Treatment: TreatmentOperating, Manual: true},
		{Category: model.CategoryOther, Label: "Other", Types: []model.TxType{model.TxExpense, model.TxIncome}, Treatment: TreatmentOperating, TaxLine: "schedule_c_27a", Manual: true},
	}
}
