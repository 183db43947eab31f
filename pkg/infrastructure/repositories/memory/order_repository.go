package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/domain/repositories"
)

// OrderRepository stores production orders in memory
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[entities.OrderID]*entities.ProductionOrder
}

// NewOrderRepository creates an empty order store
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[entities.OrderID]*entities.ProductionOrder),
	}
}

// Verify interface compliance
var _ repositories.ProductionOrderRepository = (*OrderRepository)(nil)

// GetOrder returns an order by ID
func (r *OrderRepository) GetOrder(
	_ context.Context, id entities.OrderID,
) (*entities.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, planning.ErrNotFound)
	}
	return order, nil
}

// ListOpenInWindow returns open orders whose planned window overlaps [start, end]
func (r *OrderRepository) ListOpenInWindow(
	_ context.Context, start, end time.Time,
) ([]*entities.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.ProductionOrder
	for _, order := range r.orders {
		if !order.IsOpen() {
			continue
		}
		if order.PlannedEnd.Before(start) || order.PlannedStart.After(end) {
			continue
		}
		out = append(out, order)
	}
	sortByID(out)
	return out, nil
}

// ListOpenForProduct returns open orders producing one product
func (r *OrderRepository) ListOpenForProduct(
	_ context.Context, productID entities.ProductID,
) ([]*entities.ProductionOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.ProductionOrder
	for _, order := range r.orders {
		if order.IsOpen() && order.ProductID == productID {
			out = append(out, order)
		}
	}
	sortByID(out)
	return out, nil
}

// SaveOrder stores or replaces an order
func (r *OrderRepository) SaveOrder(_ context.Context, order *entities.ProductionOrder) error {
	if order == nil {
		return fmt.Errorf("nil order: %w", planning.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

// sortByID keeps listings deterministic across runs
func sortByID(orders []*entities.ProductionOrder) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ID < orders[j].ID
	})
}
