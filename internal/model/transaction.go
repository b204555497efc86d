package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the direction of a ledger event.
type TxType string

const (
	TxIncome  TxType = "INCOME"
	TxExpense TxType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == TxIncome || t == TxExpense
}

// Category classifies a transaction for reporting and tax purposes.
type Category string

const (
	CategoryPlantPurchase     Category = "PLANT_PURCHASE"
	CategoryAccessoryPurchase Category = "ACCESSORY_PURCHASE"
	CategorySale              Category = "SALE"
	CategoryImportFee         Category = "IMPORT_FEE"
	CategoryShipping          Category = "SHIPPING"
	CategoryFees              Category = "FEES"
	CategorySupplies          Category = "SUPPLIES"
	CategoryCOGS              Category = "COGS"
	CategoryTaxPayment        Category = "TAX_PAYMENT"
	CategoryOther             Category = "OTHER"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryPlantPurchase,
	CategoryAccessoryPurchase,
	CategorySale,
	CategoryImportFee,
	CategoryShipping,
	CategoryFees,
	CategorySupplies,
	CategoryCOGS,
	CategoryTaxPayment,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Source is the acquisition or sales channel of an event.
type Source string

const (
	SourcePalmstreet Source = "PALMSTREET"
	SourceOnline     Source = "ONLINE"
	SourceOverseas   Source = "OVERSEAS"
	SourceLocal      Source = "LOCAL"
	SourceOther      Source = "OTHER"
)

// Sources lists every channel.
var Sources = []Source{SourcePalmstreet, SourceOnline, SourceOverseas, SourceLocal, SourceOther}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// Transaction is one immutable financial event. Transactions are only ever
// appended or deleted, never edited.
type Transaction struct {
	ID               string
	Date             time.Time
	Type             TxType
	Category         Category
	Description      string
	Amount           decimal.Decimal // always non-negative; Type carries the sign
	Source           Source
	LinkedAssetID    string // back-reference only, "" when unlinked
	IsMarketplaceFee bool
}

// IsLinkedTo reports whether the transaction references the given asset.
func (t Transaction) IsLinkedTo(assetID string) bool {
	return assetID != "" && t.LinkedAssetID == assetID
}

// CalendarDate returns the calendar day of t, read in t's own location, as
// UTC midnight. Ledger dates carry no time of day.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
