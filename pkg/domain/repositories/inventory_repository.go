package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// InventoryRepository is the boundary to the external inventory system.
// OnHand seeds MRP netting; CheckAvailability and Reserve implement the
// call contract used when a production order transitions to Released.
type InventoryRepository interface {
	// OnHand returns the current on-hand snapshot quantity for a product.
	// Unknown products report zero on hand, not an error: a product with
	// no inventory record simply has nothing in stock.
	OnHand(ctx context.Context, productID entities.ProductID) (decimal.Decimal, error)

	// CheckAvailability reports whether every material requirement can be
	// covered by unreserved on-hand stock, with one shortage entry per
	// uncoverable line.
	CheckAvailability(
		ctx context.Context,
		requirements []entities.MaterialRequirement,
	) (bool, []entities.MaterialShortage, error)

	// Reserve holds material for a released order. Callers must have
	// confirmed availability first; reserving beyond stock is an error.
	Reserve(
		ctx context.Context,
		orderID entities.OrderID,
		requirements []entities.MaterialRequirement,
	) error

	// Release frees every reservation held by an order. With consume
	// true the reserved quantities are also drawn down from on-hand
	// stock; with consume false the stock becomes available again.
	Release(ctx context.Context, orderID entities.OrderID, consume bool) error

	SetOnHand(ctx context.Context, productID entities.ProductID, qty decimal.Decimal) error
}
