package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/domain/repositories"
)

// MasterDataRepository holds products, BOMs, routings, and work centers
// in process memory. It backs the CLI scenario runs and the test suite;
// a durable implementation would live behind the same interfaces.
type MasterDataRepository struct {
	mu          sync.RWMutex
	products    map[entities.ProductID]*entities.Product
	boms        map[entities.ProductID]*entities.BillOfMaterials
	routings    map[entities.ProductID]*entities.Routing
	workCenters map[entities.WorkCenterID]*entities.WorkCenter
}

// NewMasterDataRepository creates an empty master data store
func NewMasterDataRepository() *MasterDataRepository {
	return &MasterDataRepository{
		products:    make(map[entities.ProductID]*entities.Product),
		boms:        make(map[entities.ProductID]*entities.BillOfMaterials),
		routings:    make(map[entities.ProductID]*entities.Routing),
		workCenters: make(map[entities.WorkCenterID]*entities.WorkCenter),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*MasterDataRepository)(nil)
var _ repositories.BOMRepository = (*MasterDataRepository)(nil)
var _ repositories.RoutingRepository = (*MasterDataRepository)(nil)
var _ repositories.WorkCenterRepository = (*MasterDataRepository)(nil)

// GetProduct returns product master data by ID
func (r *MasterDataRepository) GetProduct(
	_ context.Context, id entities.ProductID,
) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, planning.ErrNotFound)
	}
	return p, nil
}

// ListProducts returns all known products
func (r *MasterDataRepository) ListProducts(_ context.Context) ([]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

// SaveProduct stores or replaces a product
func (r *MasterDataRepository) SaveProduct(_ context.Context, p *entities.Product) error {
	if p == nil {
		return fmt.Errorf("nil product: %w", planning.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

// GetBOM returns the bill of materials for a product
func (r *MasterDataRepository) GetBOM(
	_ context.Context, productID entities.ProductID,
) (*entities.BillOfMaterials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bom, ok := r.boms[productID]
	if !ok {
		return nil, fmt.Errorf("bom for %s: %w", productID, planning.ErrNotFound)
	}
	return bom, nil
}

// SaveBOM stores or replaces a bill of materials
func (r *MasterDataRepository) SaveBOM(_ context.Context, bom *entities.BillOfMaterials) error {
	if bom == nil {
		return fmt.Errorf("nil bom: %w", planning.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boms[bom.ProductID] = bom
	return nil
}

// GetRouting returns the routing for a product
func (r *MasterDataRepository) GetRouting(
	_ context.Context, productID entities.ProductID,
) (*entities.Routing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	routing, ok := r.routings[productID]
	if !ok {
		return nil, fmt.Errorf("routing for %s: %w", productID, planning.ErrNotFound)
	}
	return routing, nil
}

// SaveRouting stores or replaces a routing
func (r *MasterDataRepository) SaveRouting(_ context.Context, routing *entities.Routing) error {
	if routing == nil {
		return fmt.Errorf("nil routing: %w", planning.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routings[routing.ProductID] = routing
	return nil
}

// GetWorkCenter returns a work center by ID
func (r *MasterDataRepository) GetWorkCenter(
	_ context.Context, id entities.WorkCenterID,
) (*entities.WorkCenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wc, ok := r.workCenters[id]
	if !ok {
		return nil, fmt.Errorf("work center %s: %w", id, planning.ErrNotFound)
	}
	return wc, nil
}

// ListWorkCenters returns all known work centers
func (r *MasterDataRepository) ListWorkCenters(_ context.Context) ([]*entities.WorkCenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entities.WorkCenter, 0, len(r.workCenters))
	for _, wc := range r.workCenters {
		out = append(out, wc)
	}
	return out, nil
}

// SaveWorkCenter stores or replaces a work center
func (r *MasterDataRepository) SaveWorkCenter(_ context.Context, wc *entities.WorkCenter) error {
	if wc == nil {
		return fmt.Errorf("nil work center: %w", planning.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workCenters[wc.ID] = wc
	return nil
}
