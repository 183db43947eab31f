package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/infrastructure/repositories/csv"
	"github.com/shopfloor-io/planner/pkg/infrastructure/repositories/memory"
)

// scenario bundles the in-memory repositories loaded from one scenario
// directory: products.csv, bom.csv, routings.csv, workcenters.csv,
// demands.csv, and optionally inventory.csv.
type scenario struct {
	master    *memory.MasterDataRepository
	inventory *memory.InventoryRepository
	orders    *memory.OrderRepository
	demands   map[entities.ProductID][]entities.Demand
}

func loadScenario(ctx context.Context, dir string) (*scenario, error) {
	if dir == "" {
		return nil, fmt.Errorf("scenario directory is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("scenario directory %s: %w", dir, err)
	}

	loader := csv.NewLoader()

	products, err := loader.LoadProducts(filepath.Join(dir, "products.csv"))
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	boms, err := loader.LoadBOMs(filepath.Join(dir, "bom.csv"))
	if err != nil {
		return nil, fmt.Errorf("loading bom: %w", err)
	}
	routings, err := loader.LoadRoutings(filepath.Join(dir, "routings.csv"))
	if err != nil {
		return nil, fmt.Errorf("loading routings: %w", err)
	}
	centers, err := loader.LoadWorkCenters(filepath.Join(dir, "workcenters.csv"))
	if err != nil {
		return nil, fmt.Errorf("loading work centers: %w", err)
	}
	demands, err := loader.LoadDemands(filepath.Join(dir, "demands.csv"))
	if err != nil {
		return nil, fmt.Errorf("loading demands: %w", err)
	}

	s := &scenario{
		master:    memory.NewMasterDataRepository(),
		inventory: memory.NewInventoryRepository(),
		orders:    memory.NewOrderRepository(),
		demands:   demands,
	}
	for _, p := range products {
		if err := s.master.SaveProduct(ctx, p); err != nil {
			return nil, err
		}
	}
	for _, b := range boms {
		if err := s.master.SaveBOM(ctx, b); err != nil {
			return nil, err
		}
	}
	for _, r := range routings {
		if err := s.master.SaveRouting(ctx, r); err != nil {
			return nil, err
		}
	}
	for _, wc := range centers {
		if err := s.master.SaveWorkCenter(ctx, wc); err != nil {
			return nil, err
		}
	}

	// Inventory is optional: a scenario without it starts from zero stock
	inventoryFile := filepath.Join(dir, "inventory.csv")
	if _, err := os.Stat(inventoryFile); err == nil {
		onHand, err := loader.LoadInventory(inventoryFile)
		if err != nil {
			return nil, fmt.Errorf("loading inventory: %w", err)
		}
		for productID, qty := range onHand {
			if err := s.inventory.SetOnHand(ctx, productID, qty); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}
