package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Component represents a single line in a Bill of Materials
type Component struct {
	ComponentID  ProductID
	QuantityPer  decimal.Decimal
	Unit         string
	ScrapFactor  decimal.Decimal
	LeadTimeDays int
	UnitCost     decimal.Decimal
	Phantom      bool
}

// NewComponent creates a validated Component. The scrap factor is the
// fraction of component material lost per unit produced and must lie
// in [0, 1).
func NewComponent(
	componentID ProductID,
	quantityPer decimal.Decimal,
	unit string,
	scrapFactor decimal.Decimal,
	leadTimeDays int,
	unitCost decimal.Decimal,
	phantom bool,
) (*Component, error) {
	if string(componentID) == "" {
		return nil, fmt.Errorf("component id cannot be empty")
	}
	if quantityPer.IsNegative() {
		return nil, fmt.Errorf("quantity per unit cannot be negative, got %s", quantityPer)
	}
	if scrapFactor.IsNegative() || scrapFactor.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("scrap factor must be in [0,1), got %s", scrapFactor)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("unit cost cannot be negative, got %s", unitCost)
	}

	return &Component{
		ComponentID:  componentID,
		QuantityPer:  quantityPer,
		Unit:         unit,
		ScrapFactor:  scrapFactor,
		LeadTimeDays: leadTimeDays,
		UnitCost:     unitCost,
		Phantom:      phantom,
	}, nil
}

// GrossQuantity returns the component quantity needed for the given
// demand, inflated for expected scrap: quantityPer * demand * (1+scrap).
func (c Component) GrossQuantity(demand decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	return c.QuantityPer.Mul(demand).Mul(one.Add(c.ScrapFactor))
}

// BillOfMaterials represents the component list for one unit of a product
type BillOfMaterials struct {
	ProductID     ProductID
	Version       int
	EffectiveDate time.Time
	Components    []Component
}

// NewBillOfMaterials creates a validated BillOfMaterials
func NewBillOfMaterials(
	productID ProductID,
	version int,
	effectiveDate time.Time,
	components []Component,
) (*BillOfMaterials, error) {
	if string(productID) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if version <= 0 {
		return nil, fmt.Errorf("version must be positive, got %d", version)
	}
	seen := make(map[ProductID]bool, len(components))
	for _, c := range components {
		if c.ComponentID == productID {
			return nil, fmt.Errorf("product %s cannot be a component of itself", productID)
		}
		if seen[c.ComponentID] {
			return nil, fmt.Errorf("duplicate component %s", c.ComponentID)
		}
		seen[c.ComponentID] = true
	}

	return &BillOfMaterials{
		ProductID:     productID,
		Version:       version,
		EffectiveDate: effectiveDate,
		Components:    components,
	}, nil
}

// MaxComponentLeadTimeDays returns the longest purchasing lead time among
// non-phantom components. Phantoms pass through and never stock, so their
// lead time never gates a release.
func (b *BillOfMaterials) MaxComponentLeadTimeDays() int {
	max := 0
	for _, c := range b.Components {
		if c.Phantom {
			continue
		}
		if c.LeadTimeDays > max {
			max = c.LeadTimeDays
		}
	}
	return max
}
