package repositories

import (
	"context"
	"time"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// ProductionOrderRepository provides access to production order records.
// The capacity planner reads open orders for load aggregation; the
// orchestrator persists lifecycle transitions.
type ProductionOrderRepository interface {
	GetOrder(ctx context.Context, id entities.OrderID) (*entities.ProductionOrder, error)

	// ListOpenInWindow returns orders in Planned, Released, or InProgress
	// status whose planned window overlaps [start, end].
	ListOpenInWindow(ctx context.Context, start, end time.Time) ([]*entities.ProductionOrder, error)

	// ListOpenForProduct returns open orders for one product, used as
	// scheduled receipts during MRP netting.
	ListOpenForProduct(ctx context.Context, productID entities.ProductID) ([]*entities.ProductionOrder, error)

	SaveOrder(ctx context.Context, order *entities.ProductionOrder) error
}
