package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

const (
	StatusMother   AssetStatus = "MOTHER"
	StatusForSale  AssetStatus = "FOR_SALE"
	StatusSold     AssetStatus = "SOLD"
	StatusArchived AssetStatus = "ARCHIVED"
)

// Valid reports whether s is a known status.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusMother, StatusForSale, StatusSold, StatusArchived:
		return true
	}
	return false
}

// rank orders the forward chain MOTHER -> FOR_SALE -> SOLD.
func (s AssetStatus) rank() int {
	switch s {
	case StatusMother:
		return 0
	case StatusForSale:
		return 1
	case StatusSold:
		return 2
	}
	return -1
}

// CanTransition reports whether an asset may move from s to next.
// Staying put is always allowed, ARCHIVED is reachable from anywhere and
// is terminal, otherwise status only moves forward along the chain.
func (s AssetStatus) CanTransition(next AssetStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s == StatusArchived {
		return false
	}
	if next == StatusArchived {
		return true
	}
	return next.rank() > s.rank()
}

// Asset is a biological unit held for propagation or resale.
//
// Remaining basis is deliberately absent: it is always derived from the
// COGS rows linked to the asset, see package basis.
type Asset struct {
	ID               string
	Name             string
	AcquisitionDate  time.Time
	Source           Source
	AcquisitionPrice decimal.Decimal
	ImportFees       decimal.Decimal
	InitialBasis     decimal.Decimal // AcquisitionPrice + ImportFees, fixed at creation
	Status           AssetStatus
	Notes            string
}
