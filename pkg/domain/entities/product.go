package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique product identifier
type ProductID string

// Product represents a manufactured or purchased item
type Product struct {
	ID            ProductID
	Name          string
	UnitOfMeasure string
	StandardCost  decimal.Decimal
}

// NewProduct creates a validated Product
func NewProduct(id ProductID, name, uom string, standardCost decimal.Decimal) (*Product, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if uom == "" {
		return nil, fmt.Errorf("unit of measure cannot be empty")
	}
	if standardCost.IsNegative() {
		return nil, fmt.Errorf("standard cost cannot be negative, got %s", standardCost)
	}

	return &Product{
		ID:            id,
		Name:          name,
		UnitOfMeasure: uom,
		StandardCost:  standardCost,
	}, nil
}
