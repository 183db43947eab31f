package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/domain/repositories"
)

// InventoryRepository tracks on-hand stock and order reservations in
// memory. Available stock is on hand minus the sum of reservations.
type InventoryRepository struct {
	mu           sync.RWMutex
	onHand       map[entities.ProductID]decimal.Decimal
	reservations map[entities.ProductID]decimal.Decimal
	byOrder      map[entities.OrderID][]entities.Reservation
}

// NewInventoryRepository creates an empty inventory store
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		onHand:       make(map[entities.ProductID]decimal.Decimal),
		reservations: make(map[entities.ProductID]decimal.Decimal),
		byOrder:      make(map[entities.OrderID][]entities.Reservation),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// OnHand returns current stock; unknown products report zero
func (r *InventoryRepository) OnHand(
	_ context.Context, productID entities.ProductID,
) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onHand[productID], nil
}

// SetOnHand replaces the stock level for a product
func (r *InventoryRepository) SetOnHand(
	_ context.Context, productID entities.ProductID, qty decimal.Decimal,
) error {
	if qty.IsNegative() {
		return fmt.Errorf("negative on-hand for %s: %w", productID, planning.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onHand[productID] = qty
	return nil
}

// CheckAvailability reports whether unreserved stock covers every requirement
func (r *InventoryRepository) CheckAvailability(
	_ context.Context, requirements []entities.MaterialRequirement,
) (bool, []entities.MaterialShortage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var shortages []entities.MaterialShortage
	for _, req := range requirements {
		available := r.available(req.ComponentID)
		if available.LessThan(req.Quantity) {
			shortages = append(shortages, entities.MaterialShortage{
				ComponentID: req.ComponentID,
				Required:    req.Quantity,
				Available:   available,
			})
		}
	}
	return len(shortages) == 0, shortages, nil
}

// Reserve holds stock for an order; callers confirm availability first
func (r *InventoryRepository) Reserve(
	_ context.Context, orderID entities.OrderID, requirements []entities.MaterialRequirement,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range requirements {
		if r.available(req.ComponentID).LessThan(req.Quantity) {
			return fmt.Errorf(
				"cannot reserve %s of %s for order %s: %w",
				req.Quantity, req.ComponentID, orderID, planning.ErrInfeasible,
			)
		}
	}
	now := time.Now()
	for _, req := range requirements {
		r.reservations[req.ComponentID] = r.reservations[req.ComponentID].Add(req.Quantity)
		r.byOrder[orderID] = append(r.byOrder[orderID], entities.Reservation{
			OrderID:     orderID,
			ComponentID: req.ComponentID,
			Quantity:    req.Quantity,
			ReservedAt:  now,
		})
	}
	return nil
}

// Release frees all reservations held by an order. On completion the
// stock is consumed; on cancellation it returns to the available pool.
func (r *InventoryRepository) Release(
	_ context.Context, orderID entities.OrderID, consume bool,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.byOrder[orderID] {
		r.reservations[res.ComponentID] = r.reservations[res.ComponentID].Sub(res.Quantity)
		if consume {
			r.onHand[res.ComponentID] = r.onHand[res.ComponentID].Sub(res.Quantity)
		}
	}
	delete(r.byOrder, orderID)
	return nil
}

// available assumes the caller holds at least a read lock
func (r *InventoryRepository) available(productID entities.ProductID) decimal.Decimal {
	return r.onHand[productID].Sub(r.reservations[productID])
}
