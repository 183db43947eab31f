package orchestration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
	"github.com/shopfloor-io/planner/pkg/infrastructure/repositories/memory"
)

var (
	testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	dueDate = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	orchestrator *PlanningOrchestrator
	master       *memory.MasterDataRepository
	inventory    *memory.InventoryRepository
	orders       *memory.OrderRepository
	store        *events.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	master := memory.NewMasterDataRepository()
	inventory := memory.NewInventoryRepository()
	orders := memory.NewOrderRepository()
	store := events.NewMemoryStore(zerolog.Nop())

	var seq int
	orchestrator := NewPlanningOrchestratorWithConfig(
		master, master, master, inventory, orders, store, zerolog.Nop(),
		Config{
			WorkdayMinutes: 480,
			Now:            func() time.Time { return testNow },
			NextID: func() entities.OrderID {
				seq++
				return entities.OrderID(fmt.Sprintf("WO-%03d", seq))
			},
		},
	)
	return &fixture{
		orchestrator: orchestrator,
		master:       master,
		inventory:    inventory,
		orders:       orders,
		store:        store,
	}
}

// seedBicycle loads a product with two purchased components and a
// two-operation routing. Frame qty 1 at 2% scrap, wheel qty 2 at no
// scrap.
func (f *fixture) seedBicycle(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	product, err := entities.NewProduct("BIKE", "City Bike", "ea", decimal.NewFromInt(450))
	require.NoError(t, err)
	require.NoError(t, f.master.SaveProduct(ctx, product))

	frame, err := entities.NewComponent(
		"FRAME", decimal.NewFromInt(1), "ea",
		decimal.NewFromFloat(0.02), 7, decimal.NewFromInt(120), false,
	)
	require.NoError(t, err)
	wheel, err := entities.NewComponent(
		"WHEEL", decimal.NewFromInt(2), "ea",
		decimal.Zero, 5, decimal.NewFromInt(35), false,
	)
	require.NoError(t, err)
	bom, err := entities.NewBillOfMaterials("BIKE", 1, testNow, []entities.Component{*frame, *wheel})
	require.NoError(t, err)
	require.NoError(t, f.master.SaveBOM(ctx, bom))

	weld, err := entities.NewOperation(
		10, "weld", "WELD-01", 30, 12, 0, 0,
		decimal.NewFromInt(40), decimal.NewFromInt(20),
	)
	require.NoError(t, err)
	assemble, err := entities.NewOperation(
		20, "assemble", "ASSY-01", 15, 20, 0, 0,
		decimal.NewFromInt(35), decimal.NewFromInt(15),
	)
	require.NoError(t, err)
	routing, err := entities.NewRouting("BIKE", 1, []entities.Operation{*weld, *assemble})
	require.NoError(t, err)
	require.NoError(t, f.master.SaveRouting(ctx, routing))
}

func TestOrchestrator_CreateProductionOrderSnapshotsRequirements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)

	assert.Equal(t, entities.OrderID("WO-001"), order.ID)
	assert.Equal(t, entities.OrderPlanned, order.Status)

	// Materials: frame 10*1*1.02 = 10.2, wheel 10*2 = 20
	require.Len(t, order.Materials, 2)
	assert.Equal(t, entities.ProductID("FRAME"), order.Materials[0].ComponentID)
	assert.True(t, order.Materials[0].Quantity.Equal(decimal.NewFromFloat(10.2)),
		"got %s", order.Materials[0].Quantity)
	assert.True(t, order.Materials[1].Quantity.Equal(decimal.NewFromInt(20)))

	// Capacity: weld 30+12*10 = 150 min, assemble 15+20*10 = 215 min
	require.Len(t, order.Capacity, 2)
	assert.InDelta(t, 150, order.Capacity[0].RequiredMinutes, 0.001)
	assert.InDelta(t, 215, order.Capacity[1].RequiredMinutes, 0.001)
	assert.Equal(t, entities.WorkCenterID("WELD-01"), order.Capacity[0].WorkCenterID)

	// Routing totals 365 min, under one 480-minute workday: start one
	// day before due
	assert.Equal(t, dueDate.AddDate(0, 0, -1), order.PlannedStart)
}

func TestOrchestrator_SnapshotSurvivesBOMEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)
	originalQty := order.Materials[1].Quantity

	// Rewrite the BOM: wheels now qty 3 per unit
	wheel, err := entities.NewComponent(
		"WHEEL", decimal.NewFromInt(3), "ea",
		decimal.Zero, 5, decimal.NewFromInt(35), false,
	)
	require.NoError(t, err)
	newBOM, err := entities.NewBillOfMaterials("BIKE", 2, testNow, []entities.Component{*wheel})
	require.NoError(t, err)
	require.NoError(t, f.master.SaveBOM(ctx, newBOM))

	reloaded, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Materials[1].Quantity.Equal(originalQty),
		"existing order's snapshot changed after BOM edit")
}

func TestOrchestrator_PhantomComponentsExplodeThrough(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	// Replace the BOM: one phantom subassembly wrapping a bolt
	phantom, err := entities.NewComponent(
		"KIT", decimal.NewFromInt(2), "ea",
		decimal.Zero, 0, decimal.Zero, true,
	)
	require.NoError(t, err)
	bom, err := entities.NewBillOfMaterials("BIKE", 2, testNow, []entities.Component{*phantom})
	require.NoError(t, err)
	require.NoError(t, f.master.SaveBOM(ctx, bom))

	bolt, err := entities.NewComponent(
		"BOLT", decimal.NewFromInt(4), "ea",
		decimal.Zero, 3, decimal.NewFromFloat(0.5), false,
	)
	require.NoError(t, err)
	kitBOM, err := entities.NewBillOfMaterials("KIT", 1, testNow, []entities.Component{*bolt})
	require.NoError(t, err)
	require.NoError(t, f.master.SaveBOM(ctx, kitBOM))

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(5), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)

	// The phantom never appears; its bolts do: 5 * 2 * 4 = 40
	require.Len(t, order.Materials, 1)
	assert.Equal(t, entities.ProductID("BOLT"), order.Materials[0].ComponentID)
	assert.True(t, order.Materials[0].Quantity.Equal(decimal.NewFromInt(40)),
		"got %s", order.Materials[0].Quantity)
}

func TestOrchestrator_ReleaseOrderGatesOnAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)

	// Nothing in stock: release must fail and leave the order Planned
	err = f.orchestrator.ReleaseOrder(ctx, order.ID)
	assert.ErrorIs(t, err, planning.ErrInfeasible)
	reloaded, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderPlanned, reloaded.Status)

	// Stock both components and retry
	require.NoError(t, f.inventory.SetOnHand(ctx, "FRAME", decimal.NewFromInt(15)))
	require.NoError(t, f.inventory.SetOnHand(ctx, "WHEEL", decimal.NewFromInt(25)))

	require.NoError(t, f.orchestrator.ReleaseOrder(ctx, order.ID))
	reloaded, err = f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderReleased, reloaded.Status)

	// The reservation holds the stock: a second identical order cannot release
	second, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)
	err = f.orchestrator.ReleaseOrder(ctx, second.ID)
	assert.ErrorIs(t, err, planning.ErrInfeasible)
}

func TestOrchestrator_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	require.NoError(t, f.inventory.SetOnHand(ctx, "FRAME", decimal.NewFromInt(15)))
	require.NoError(t, f.inventory.SetOnHand(ctx, "WHEEL", decimal.NewFromInt(25)))

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityHigh, dueDate,
	)
	require.NoError(t, err)

	require.NoError(t, f.orchestrator.ReleaseOrder(ctx, order.ID))
	require.NoError(t, f.orchestrator.StartOrder(ctx, order.ID))
	require.NoError(t, f.orchestrator.CompleteOrder(
		ctx, order.ID, decimal.NewFromInt(9), decimal.NewFromInt(1),
	))

	done, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderCompleted, done.Status)
	assert.Equal(t, testNow, done.ActualStart)
	assert.Equal(t, testNow, done.ActualEnd)
	assert.True(t, done.Yield().Equal(decimal.NewFromFloat(0.9)), "got %s", done.Yield())

	// Material cost: 10.2 frames at 120 plus 20 wheels at 35 = 1924
	assert.True(t, done.ActualCost.Equal(decimal.NewFromInt(1924)), "got %s", done.ActualCost)

	// Completed orders no longer contribute planned load
	open, err := f.orders.ListOpenInWindow(ctx, order.PlannedStart, order.PlannedEnd)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestOrchestrator_CancelFreesReservations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	// Stock exactly one order's worth: 10*1*1.02 frames, 10*2 wheels
	require.NoError(t, f.inventory.SetOnHand(ctx, "FRAME", decimal.NewFromFloat(10.2)))
	require.NoError(t, f.inventory.SetOnHand(ctx, "WHEEL", decimal.NewFromInt(20)))

	first, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)
	require.NoError(t, f.orchestrator.ReleaseOrder(ctx, first.ID))
	require.NoError(t, f.orchestrator.CancelOrder(ctx, first.ID, "customer pulled the order"))

	// Nothing was consumed, so the stock must cover an identical order
	second, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)
	require.NoError(t, f.orchestrator.ReleaseOrder(ctx, second.ID))

	onHand, err := f.inventory.OnHand(ctx, "FRAME")
	require.NoError(t, err)
	assert.True(t, onHand.Equal(decimal.NewFromFloat(10.2)),
		"cancellation changed on-hand stock: got %s", onHand)
}

func TestOrchestrator_CompleteConsumesReservations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	require.NoError(t, f.inventory.SetOnHand(ctx, "FRAME", decimal.NewFromFloat(10.2)))
	require.NoError(t, f.inventory.SetOnHand(ctx, "WHEEL", decimal.NewFromInt(20)))

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)
	require.NoError(t, f.orchestrator.ReleaseOrder(ctx, order.ID))
	require.NoError(t, f.orchestrator.StartOrder(ctx, order.ID))
	require.NoError(t, f.orchestrator.CompleteOrder(
		ctx, order.ID, decimal.NewFromInt(10), decimal.Zero,
	))

	// Consumed material leaves stock; the next MRP run must not see it
	for _, component := range []entities.ProductID{"FRAME", "WHEEL"} {
		onHand, err := f.inventory.OnHand(ctx, component)
		require.NoError(t, err)
		assert.True(t, onHand.IsZero(), "%s on hand after completion: %s", component, onHand)
	}

	// An identical follow-up order finds no material to release against
	next, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)
	err = f.orchestrator.ReleaseOrder(ctx, next.ID)
	assert.ErrorIs(t, err, planning.ErrInfeasible)
}

func TestOrchestrator_BuildJobsMapsOpenOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	order, err := f.orchestrator.CreateProductionOrder(
		ctx, "BIKE", decimal.NewFromInt(10), entities.PriorityNormal, dueDate,
	)
	require.NoError(t, err)

	windowStart := order.PlannedStart
	jobs, err := f.orchestrator.BuildJobs(ctx, windowStart, dueDate)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, entities.JobID(order.ID), job.ID)
	assert.Equal(t, order.ID, job.OrderID)
	require.Len(t, job.Operations, 2)
	assert.InDelta(t, 150.0/60, job.Operations[0].ProcessingHours, 0.001)
	assert.InDelta(t, 215.0/60, job.Operations[1].ProcessingHours, 0.001)
	assert.Zero(t, job.ReleaseHour)
	assert.InDelta(t, 24, job.DueHour, 0.001)
}

func TestOrchestrator_CreateErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedBicycle(t)

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.orchestrator.CreateProductionOrder(
			ctx, "NOPE", decimal.NewFromInt(1), entities.PriorityNormal, dueDate,
		)
		assert.ErrorIs(t, err, planning.ErrNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := f.orchestrator.CreateProductionOrder(
			ctx, "BIKE", decimal.Zero, entities.PriorityNormal, dueDate,
		)
		assert.ErrorIs(t, err, planning.ErrInvalidInput)
	})
}
