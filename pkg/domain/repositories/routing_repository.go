package repositories

import (
	"context"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// RoutingRepository provides read access to routing data
type RoutingRepository interface {
	// GetRouting returns the current routing for a product, or an error
	// wrapping planning.ErrNotFound.
	GetRouting(ctx context.Context, productID entities.ProductID) (*entities.Routing, error)

	SaveRouting(ctx context.Context, routing *entities.Routing) error
}
