package orchestration

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/domain/repositories"
	"github.com/shopfloor-io/planner/pkg/domain/services"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
)

// Config tunes orchestrator behavior. Now and NextID are injectable so
// tests can pin time and order identifiers.
type Config struct {
	WorkdayMinutes float64
	Now            func() time.Time
	NextID         func() entities.OrderID
}

// PlanningOrchestrator coordinates the production order lifecycle: it
// snapshots BOM and routing data into new orders, gates release on
// material availability, and maps open orders into scheduling jobs.
type PlanningOrchestrator struct {
	products  repositories.ProductRepository
	boms      repositories.BOMRepository
	routings  repositories.RoutingRepository
	inventory repositories.InventoryRepository
	orders    repositories.ProductionOrderRepository
	validator *services.BOMValidator
	store     events.Store

	cfg Config
	log zerolog.Logger
}

// NewPlanningOrchestrator creates an orchestrator with default config
func NewPlanningOrchestrator(
	products repositories.ProductRepository,
	boms repositories.BOMRepository,
	routings repositories.RoutingRepository,
	inventory repositories.InventoryRepository,
	orders repositories.ProductionOrderRepository,
	store events.Store,
	log zerolog.Logger,
) *PlanningOrchestrator {
	return NewPlanningOrchestratorWithConfig(
		products, boms, routings, inventory, orders, store, log, Config{},
	)
}

// NewPlanningOrchestratorWithConfig creates an orchestrator with custom config
func NewPlanningOrchestratorWithConfig(
	products repositories.ProductRepository,
	boms repositories.BOMRepository,
	routings repositories.RoutingRepository,
	inventory repositories.InventoryRepository,
	orders repositories.ProductionOrderRepository,
	store events.Store,
	log zerolog.Logger,
	cfg Config,
) *PlanningOrchestrator {
	if cfg.WorkdayMinutes <= 0 {
		cfg.WorkdayMinutes = 480
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NextID == nil {
		var counter atomic.Int64
		cfg.NextID = func() entities.OrderID {
			return entities.OrderID(fmt.Sprintf("WO-%06d", counter.Add(1)))
		}
	}
	return &PlanningOrchestrator{
		products:  products,
		boms:      boms,
		routings:  routings,
		inventory: inventory,
		orders:    orders,
		validator: services.NewBOMValidator(),
		store:     store,
		cfg:       cfg,
		log:       log.With().Str("component", "orchestrator").Logger(),
	}
}

// CreateProductionOrder materializes a new order: material requirements
// from BOM x quantity with phantoms exploded through, capacity
// requirements from Routing x quantity placed sequentially from the
// back-scheduled start. Both lists are value copies; later BOM or
// routing edits never touch the order.
func (po *PlanningOrchestrator) CreateProductionOrder(
	ctx context.Context,
	productID entities.ProductID,
	quantity decimal.Decimal,
	priority entities.OrderPriority,
	dueDate time.Time,
) (*entities.ProductionOrder, error) {
	if quantity.Sign() <= 0 {
		return nil, fmt.Errorf("order quantity must be positive: %w", planning.ErrInvalidInput)
	}
	if _, err := po.products.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}
	bom, err := po.boms.GetBOM(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("bom for %s: %w", productID, err)
	}
	routing, err := po.routings.GetRouting(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("routing for %s: %w", productID, err)
	}

	materials, err := po.explodeMaterials(ctx, productID, bom, quantity, dueDate)
	if err != nil {
		return nil, err
	}

	leadDays := routing.LeadTimeDays(quantity, po.cfg.WorkdayMinutes)
	plannedStart := dueDate.AddDate(0, 0, -leadDays)
	capacity := po.buildCapacity(routing, quantity, plannedStart)

	order, err := entities.NewProductionOrder(
		po.cfg.NextID(), productID, quantity, priority,
		plannedStart, dueDate, materials, capacity,
	)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := po.orders.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order %s: %w", order.ID, err)
	}
	po.publish(events.NewOrderPlannedEvent(order))

	po.log.Info().
		Str("order", string(order.ID)).
		Str("product", string(productID)).
		Str("quantity", quantity.String()).
		Time("planned_start", plannedStart).
		Msg("production order created")

	return order, nil
}

// ReleaseOrder transitions an order to Released after confirming and
// reserving material availability. Shortages surface as an infeasible
// error; the order stays Planned.
func (po *PlanningOrchestrator) ReleaseOrder(
	ctx context.Context, orderID entities.OrderID,
) error {
	order, err := po.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %s: %w", orderID, err)
	}

	ok, shortages, err := po.inventory.CheckAvailability(ctx, order.Materials)
	if err != nil {
		return fmt.Errorf("availability check for %s: %w", orderID, err)
	}
	if !ok {
		po.publish(events.NewMaterialShortageFoundEvent(orderID, shortages))
		return fmt.Errorf(
			"order %s short on %d materials: %w",
			orderID, len(shortages), planning.ErrInfeasible,
		)
	}

	if err := po.inventory.Reserve(ctx, orderID, order.Materials); err != nil {
		return fmt.Errorf("reserve materials for %s: %w", orderID, err)
	}
	po.publish(events.NewMaterialReservedEvent(orderID, len(order.Materials)))

	if err := order.Release(); err != nil {
		return err
	}
	if err := po.orders.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("save order %s: %w", orderID, err)
	}
	po.publish(events.NewOrderReleasedEvent(order))

	po.log.Info().Str("order", string(orderID)).Msg("production order released")
	return nil
}

// StartOrder transitions a released order to InProgress
func (po *PlanningOrchestrator) StartOrder(
	ctx context.Context, orderID entities.OrderID,
) error {
	order, err := po.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %s: %w", orderID, err)
	}
	if err := order.Start(po.cfg.Now()); err != nil {
		return err
	}
	if err := po.orders.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("save order %s: %w", orderID, err)
	}
	po.publish(events.NewOrderStartedEvent(order))
	return nil
}

// CompleteOrder closes an in-progress order, recording produced and
// scrap quantities and the actual cost derived from the order's
// material and capacity snapshots.
func (po *PlanningOrchestrator) CompleteOrder(
	ctx context.Context,
	orderID entities.OrderID,
	produced, scrap decimal.Decimal,
) error {
	order, err := po.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %s: %w", orderID, err)
	}

	cost := snapshotCost(order)
	if err := order.Complete(po.cfg.Now(), produced, scrap, cost); err != nil {
		return err
	}
	if err := po.orders.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("save order %s: %w", orderID, err)
	}
	if err := po.inventory.Release(ctx, orderID, true); err != nil {
		return fmt.Errorf("consume reservations for %s: %w", orderID, err)
	}
	po.publish(events.NewOrderCompletedEvent(order))

	po.log.Info().
		Str("order", string(orderID)).
		Str("produced", produced.String()).
		Str("scrap", scrap.String()).
		Str("yield", order.Yield().String()).
		Msg("production order completed")
	return nil
}

// CancelOrder terminates an order that has not completed
func (po *PlanningOrchestrator) CancelOrder(
	ctx context.Context, orderID entities.OrderID, reason string,
) error {
	order, err := po.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order %s: %w", orderID, err)
	}
	if err := order.Cancel(); err != nil {
		return err
	}
	if err := po.orders.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("save order %s: %w", orderID, err)
	}
	// A Planned order holds no reservations; Release is a no-op then.
	if err := po.inventory.Release(ctx, orderID, false); err != nil {
		return fmt.Errorf("free reservations for %s: %w", orderID, err)
	}
	po.publish(events.NewOrderCancelledEvent(order, reason))
	return nil
}

// BuildJobs maps open orders in the window into scheduling jobs. Hours
// are measured from the window start; orders planned before it release
// immediately at hour zero.
func (po *PlanningOrchestrator) BuildJobs(
	ctx context.Context, start, end time.Time,
) ([]*entities.Job, error) {
	orders, err := po.orders.ListOpenInWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("orders in window: %w", err)
	}

	jobs := make([]*entities.Job, 0, len(orders))
	for _, order := range orders {
		ops := make([]entities.JobOperation, 0, len(order.Capacity))
		for _, req := range order.Capacity {
			ops = append(ops, entities.JobOperation{
				WorkCenterID:    req.WorkCenterID,
				Name:            req.OperationName,
				ProcessingHours: req.RequiredMinutes / 60,
			})
		}

		job, err := entities.NewJob(
			entities.JobID(order.ID),
			order.ID,
			order.ProductID,
			order.Priority,
			hoursFrom(start, order.PlannedStart),
			hoursFrom(start, order.PlannedEnd),
			ops,
		)
		if err != nil {
			return nil, fmt.Errorf("job for order %s: %w", order.ID, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// explodeMaterials flattens the BOM into material requirements. Phantom
// components never stock: their own components are pulled up into the
// parent's requirement list, scaled by the phantom's gross quantity.
func (po *PlanningOrchestrator) explodeMaterials(
	ctx context.Context,
	productID entities.ProductID,
	bom *entities.BillOfMaterials,
	quantity decimal.Decimal,
	needDate time.Time,
) ([]entities.MaterialRequirement, error) {
	reachable, err := po.gatherBOMs(ctx, productID, bom)
	if err != nil {
		return nil, err
	}
	if result := po.validator.Validate(reachable); result.HasCycles {
		return nil, fmt.Errorf(
			"bom graph for %s has cycles: %v: %w",
			productID, result.CyclePaths, planning.ErrInvalidInput,
		)
	}

	var materials []entities.MaterialRequirement
	var walk func(b *entities.BillOfMaterials, demand decimal.Decimal) error
	walk = func(b *entities.BillOfMaterials, demand decimal.Decimal) error {
		for _, c := range b.Components {
			gross := c.GrossQuantity(demand)
			if !c.Phantom {
				materials = append(materials, entities.MaterialRequirement{
					ComponentID: c.ComponentID,
					Quantity:    gross,
					Unit:        c.Unit,
					UnitCost:    c.UnitCost,
					NeedDate:    needDate,
				})
				continue
			}
			child, ok := reachable[c.ComponentID]
			if !ok {
				return fmt.Errorf(
					"phantom component %s has no bom: %w",
					c.ComponentID, planning.ErrNotFound,
				)
			}
			if err := walk(child, gross); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(bom, quantity); err != nil {
		return nil, err
	}
	return materials, nil
}

// gatherBOMs collects every BOM reachable through phantom components.
// The visited set bounds traversal even if the graph is cyclic; the
// validator reports the cycle afterwards.
func (po *PlanningOrchestrator) gatherBOMs(
	ctx context.Context,
	productID entities.ProductID,
	bom *entities.BillOfMaterials,
) (map[entities.ProductID]*entities.BillOfMaterials, error) {
	reachable := map[entities.ProductID]*entities.BillOfMaterials{productID: bom}
	queue := []*entities.BillOfMaterials{bom}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, c := range current.Components {
			if !c.Phantom {
				continue
			}
			if _, seen := reachable[c.ComponentID]; seen {
				continue
			}
			child, err := po.boms.GetBOM(ctx, c.ComponentID)
			if err != nil {
				return nil, fmt.Errorf("phantom component %s: %w", c.ComponentID, err)
			}
			reachable[c.ComponentID] = child
			queue = append(queue, child)
		}
	}
	return reachable, nil
}

// buildCapacity places routing operations sequentially from the planned
// start, each spanning its elapsed time scaled to calendar days.
func (po *PlanningOrchestrator) buildCapacity(
	routing *entities.Routing,
	quantity decimal.Decimal,
	plannedStart time.Time,
) []entities.CapacityRequirement {
	capacity := make([]entities.CapacityRequirement, 0, len(routing.Operations))
	cursor := plannedStart

	for _, op := range routing.Operations {
		elapsed := op.ElapsedMinutes(quantity)
		span := time.Duration(elapsed / po.cfg.WorkdayMinutes * 24 * float64(time.Hour))
		end := cursor.Add(span)

		capacity = append(capacity, entities.CapacityRequirement{
			WorkCenterID:    op.WorkCenterID,
			OperationName:   op.Name,
			Sequence:        op.Sequence,
			RequiredMinutes: op.CapacityMinutes(quantity),
			Start:           cursor,
			End:             end,
		})
		cursor = end
	}
	return capacity
}

// snapshotCost prices the order's material snapshot at captured unit
// costs. Labor and overhead are settled by the costing system outside
// this core.
func snapshotCost(order *entities.ProductionOrder) decimal.Decimal {
	cost := decimal.Zero
	for _, m := range order.Materials {
		cost = cost.Add(m.Quantity.Mul(m.UnitCost))
	}
	return cost
}

func (po *PlanningOrchestrator) publish(event events.Event) {
	if po.store == nil {
		return
	}
	if err := po.store.Append(event.StreamID, event); err != nil {
		po.log.Warn().Err(err).Str("event", event.Type).Msg("event publish failed")
	}
}

func hoursFrom(origin, t time.Time) float64 {
	h := t.Sub(origin).Hours()
	if h < 0 {
		return 0
	}
	return h
}
