package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
)

func TestInventoryRepository_OnHandUnknownProductIsZero(t *testing.T) {
	repo := NewInventoryRepository()

	qty, err := repo.OnHand(context.Background(), "UNKNOWN")
	if err != nil {
		t.Fatalf("OnHand failed: %v", err)
	}
	if !qty.IsZero() {
		t.Errorf("Expected zero on hand for unknown product, got %s", qty)
	}
}

func TestInventoryRepository_CheckAvailabilityReportsShortage(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository()

	if err := repo.SetOnHand(ctx, "STEEL", decimal.NewFromInt(50)); err != nil {
		t.Fatalf("SetOnHand failed: %v", err)
	}

	reqs := []entities.MaterialRequirement{
		{ComponentID: "STEEL", Quantity: decimal.NewFromInt(80)},
	}

	ok, shortages, err := repo.CheckAvailability(ctx, reqs)
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if ok {
		t.Fatal("Expected availability check to fail")
	}
	if len(shortages) != 1 {
		t.Fatalf("Expected 1 shortage, got %d", len(shortages))
	}
	if shortages[0].ComponentID != "STEEL" {
		t.Errorf("Expected shortage for STEEL, got %s", shortages[0].ComponentID)
	}
	if !shortages[0].Required.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected required 80, got %s", shortages[0].Required)
	}
	if !shortages[0].Available.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected available 50, got %s", shortages[0].Available)
	}
}

func TestInventoryRepository_ReserveReducesAvailability(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository()

	if err := repo.SetOnHand(ctx, "STEEL", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("SetOnHand failed: %v", err)
	}

	reqs := []entities.MaterialRequirement{
		{ComponentID: "STEEL", Quantity: decimal.NewFromInt(60)},
	}
	if err := repo.Reserve(ctx, "WO-001", reqs); err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	// A second reservation beyond the remaining 40 must fail
	err := repo.Reserve(ctx, "WO-002", reqs)
	if err == nil {
		t.Fatal("Expected second reservation to fail")
	}
	if !errors.Is(err, planning.ErrInfeasible) {
		t.Errorf("Expected ErrInfeasible, got %v", err)
	}

	// Releasing with consumption draws down on hand
	if err := repo.Release(ctx, "WO-001", true); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	qty, err := repo.OnHand(ctx, "STEEL")
	if err != nil {
		t.Fatalf("OnHand failed: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected 40 on hand after consumption, got %s", qty)
	}
}
