package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// SKU Entity
// ---------------------------------------------------------------------------

// SKU is the canonical product-variant record produced by the catalog sync
// pipeline. The code is always stored upper-cased and is unique across the
// catalog; SKUs are only mutated by the sync pipeline's upsert.
type SKU struct {
	// Code is the normalized variant identifier (always upper-case)
	Code string
	// Description is the display description of the variant
	Description string
	// Quantity is the on-hand inventory quantity
	Quantity int
	// OnRoute is incoming minus committed inventory. It may be negative when
	// more units are committed than are inbound; the raw value is preserved.
	OnRoute int
	// Size is the size label as reported by the source
	Size string
	// Color is the resolved color attribute
	Color string
	// Fabric is the resolved fabric/material attribute
	Fabric string
	// CollectionID references the resolved internal collection
	CollectionID uuid.UUID
	// PriceCAD is the wholesale price in CAD
	PriceCAD decimal.Decimal
	// PriceUSD is the wholesale price in USD
	PriceUSD decimal.Decimal
	// RetailPriceCAD is the suggested retail price in CAD
	RetailPriceCAD decimal.Decimal
	// RetailPriceUSD is the suggested retail price in USD
	RetailPriceUSD decimal.Decimal
	// UnitPriceCAD is PriceCAD divided by UnitsPerSKU
	UnitPriceCAD decimal.Decimal
	// UnitPriceUSD is PriceUSD divided by UnitsPerSKU
	UnitPriceUSD decimal.Decimal
	// UnitsPerSKU is the pack multiplier parsed from the code prefix
	UnitsPerSKU int
	// IsPreOrder is true when the resolved collection is a pre-order collection
	IsPreOrder bool
	// ImageURL is the product image URL from the source
	ImageURL string
	// WeightGrams is the variant shipping weight in grams
	WeightGrams float64
	// CreatedAt is when this SKU was first written
	CreatedAt time.Time
	// UpdatedAt is when this SKU was last written
	UpdatedAt time.Time
}

// NewSKU creates a new SKU with a normalized (upper-cased, trimmed) code.
func NewSKU(code string) (*SKU, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrSKUEmptyCode
	}

	now := time.Now()
	return &SKU{
		Code:        normalized,
		UnitsPerSKU: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeCode returns the canonical form of a SKU code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SetUnitPricing sets the pack multiplier and derives unit prices from the
// wholesale prices. Unit prices are derived independently per currency.
func (s *SKU) SetUnitPricing(units int) error {
	if units <= 0 {
		return ErrSKUInvalidUnits
	}
	s.UnitsPerSKU = units
	divisor := decimal.NewFromInt(int64(units))
	s.UnitPriceCAD = s.PriceCAD.Div(divisor)
	s.UnitPriceUSD = s.PriceUSD.Div(divisor)
	return nil
}
