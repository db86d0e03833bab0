package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique product identifier
type ProductID int64

// Product represents a purchasable product sold in fixed-size packages
type Product struct {
	ID               ProductID
	Name             string
	UnitQuantity     decimal.NullDecimal // package size in the product's native unit
	GrossUnitPrice   decimal.NullDecimal // price of one package
	UnitAbbreviation string
}

// NewProduct creates a validated Product. Pricing data may be missing; the
// planner excludes such products from cost calculations.
func NewProduct(
	id ProductID,
	name string,
	unitQuantity, grossUnitPrice decimal.NullDecimal,
	unitAbbreviation string,
) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("product id must be positive, got %d", id)
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if unitQuantity.Valid && unitQuantity.Decimal.IsNegative() {
		return nil, fmt.Errorf("unit quantity cannot be negative, got %s", unitQuantity.Decimal)
	}
	if grossUnitPrice.Valid && grossUnitPrice.Decimal.IsNegative() {
		return nil, fmt.Errorf("gross unit price cannot be negative, got %s", grossUnitPrice.Decimal)
	}

	return &Product{
		ID:               id,
		Name:             name,
		UnitQuantity:     unitQuantity,
		GrossUnitPrice:   grossUnitPrice,
		UnitAbbreviation: unitAbbreviation,
	}, nil
}

// IsPriced reports whether the product carries usable pricing data: a
// positive package size and a known, non-negative package price.
func (p Product) IsPriced() bool {
	return p.UnitQuantity.Valid && p.UnitQuantity.Decimal.IsPositive() &&
		p.GrossUnitPrice.Valid && !p.GrossUnitPrice.Decimal.IsNegative()
}
