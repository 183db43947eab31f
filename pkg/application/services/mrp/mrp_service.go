package mrp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shopfloor-io/planner/pkg/application/dto"
	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/domain/repositories"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
)

// Config holds MRP engine tunables
type Config struct {
	// WorkdayMinutes converts routing time into whole production days
	// when back-scheduling releases.
	WorkdayMinutes float64

	// Now supplies the planning clock; tests pin it to fix bucket zero.
	Now func() time.Time

	// Events receives an mrp.run.completed event per run when set
	Events events.Store
}

// Service implements time-phased material requirements planning: it nets
// demand against projected on-hand day by day over a horizon and emits
// purchase and production release recommendations.
type Service struct {
	products  repositories.ProductRepository
	boms      repositories.BOMRepository
	routings  repositories.RoutingRepository
	inventory repositories.InventoryRepository
	orders    repositories.ProductionOrderRepository

	cfg Config
	log zerolog.Logger
}

// NewService creates an MRP service with default configuration
func NewService(
	products repositories.ProductRepository,
	boms repositories.BOMRepository,
	routings repositories.RoutingRepository,
	inventory repositories.InventoryRepository,
	orders repositories.ProductionOrderRepository,
	log zerolog.Logger,
) *Service {
	return NewServiceWithConfig(products, boms, routings, inventory, orders, log, Config{})
}

// NewServiceWithConfig creates an MRP service with custom configuration
func NewServiceWithConfig(
	products repositories.ProductRepository,
	boms repositories.BOMRepository,
	routings repositories.RoutingRepository,
	inventory repositories.InventoryRepository,
	orders repositories.ProductionOrderRepository,
	log zerolog.Logger,
	cfg Config,
) *Service {
	if cfg.WorkdayMinutes <= 0 {
		cfg.WorkdayMinutes = 480
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		products:  products,
		boms:      boms,
		routings:  routings,
		inventory: inventory,
		orders:    orders,
		cfg:       cfg,
		log:       log.With().Str("component", "mrp").Logger(),
	}
}

// Run performs an MRP run for a single demand
func (s *Service) Run(
	ctx context.Context,
	productID entities.ProductID,
	demand entities.Demand,
	horizonDays int,
) (*dto.MRPResult, error) {
	return s.RunMulti(ctx, productID, []entities.Demand{demand}, horizonDays)
}

// RunMulti performs an MRP run netting several dated demands for one
// product over the same horizon. The caller receives either a complete
// bucket sequence or an error, never a truncated result.
func (s *Service) RunMulti(
	ctx context.Context,
	productID entities.ProductID,
	demands []entities.Demand,
	horizonDays int,
) (*dto.MRPResult, error) {
	if horizonDays <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d: %w", horizonDays, planning.ErrInvalidInput)
	}
	if len(demands) == 0 {
		return nil, fmt.Errorf("at least one demand is required: %w", planning.ErrInvalidInput)
	}
	for _, d := range demands {
		if d.Quantity.Sign() <= 0 {
			return nil, fmt.Errorf("demand quantity must be positive, got %s: %w", d.Quantity, planning.ErrInvalidInput)
		}
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}
	bom, err := s.boms.GetBOM(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("bom for %s: %w", productID, err)
	}
	routing, err := s.routings.GetRouting(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("routing for %s: %w", productID, err)
	}

	// Bucket zero's on-hand comes from the external snapshot; the engine
	// never invents inventory.
	onHand, err := s.inventory.OnHand(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("on-hand for %s: %w", productID, err)
	}

	start := truncateDay(s.cfg.Now())

	buckets := make([]entities.MRPTimeBucket, horizonDays)
	for i := range buckets {
		buckets[i].Date = start.AddDate(0, 0, i)
	}

	totalDemand := decimal.Zero
	for _, d := range demands {
		idx := daysBetween(start, truncateDay(d.Date))
		if idx < 0 || idx >= horizonDays {
			return nil, fmt.Errorf(
				"demand date %s outside planning horizon of %d days: %w",
				d.Date.Format("2006-01-02"), horizonDays, planning.ErrInvalidInput,
			)
		}
		buckets[idx].GrossRequirement = buckets[idx].GrossRequirement.Add(d.Quantity)
		totalDemand = totalDemand.Add(d.Quantity)
	}

	// Open production orders for this product count as scheduled receipts
	// on their planned completion day.
	open, err := s.orders.ListOpenForProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("open orders for %s: %w", productID, err)
	}
	for _, o := range open {
		idx := daysBetween(start, truncateDay(o.PlannedEnd))
		if idx >= 0 && idx < horizonDays {
			buckets[idx].ScheduledReceipts = buckets[idx].ScheduledReceipts.Add(o.Quantity)
		}
	}

	productionLeadDays := routing.LeadTimeDays(totalDemand, s.cfg.WorkdayMinutes)
	// Purchasing and production lead times are serialized: purchased
	// components must arrive before the first operation that consumes
	// them, so a conservative engine adds them end to end.
	totalLeadDays := productionLeadDays + bom.MaxComponentLeadTimeDays()

	s.net(buckets, onHand, totalLeadDays)

	result := &dto.MRPResult{
		ProductID:          productID,
		HorizonStart:       start,
		HorizonDays:        horizonDays,
		ProductionLeadDays: productionLeadDays,
		TotalLeadDays:      totalLeadDays,
		Buckets:            buckets,
	}

	for _, d := range demands {
		due := truncateDay(d.Date)
		pLead := routing.LeadTimeDays(d.Quantity, s.cfg.WorkdayMinutes)
		prodStart := due.AddDate(0, 0, -pLead)

		result.ProductionRecommendations = append(result.ProductionRecommendations,
			entities.ProductionRecommendation{
				ProductID: productID,
				Quantity:  d.Quantity,
				StartDate: prodStart,
				DueDate:   due,
			})

		for _, c := range bom.Components {
			if c.Phantom {
				continue
			}
			qty := c.GrossQuantity(d.Quantity)
			result.PurchaseRecommendations = append(result.PurchaseRecommendations,
				entities.PurchaseRecommendation{
					ComponentID:   c.ComponentID,
					Quantity:      qty,
					Unit:          c.Unit,
					DueDate:       prodStart,
					ReleaseDate:   prodStart.AddDate(0, 0, -c.LeadTimeDays),
					EstimatedCost: qty.Mul(c.UnitCost),
				})
		}
	}

	s.log.Info().
		Str("product", string(productID)).
		Int("horizon_days", horizonDays).
		Int("total_lead_days", totalLeadDays).
		Int("purchase_recs", len(result.PurchaseRecommendations)).
		Int("production_recs", len(result.ProductionRecommendations)).
		Msg("mrp run completed")

	if s.cfg.Events != nil {
		if err := s.cfg.Events.Append(string(productID), events.NewMRPRunCompletedEvent(
			productID, horizonDays,
			len(result.PurchaseRecommendations), len(result.ProductionRecommendations),
		)); err != nil {
			s.log.Warn().Err(err).Msg("event publish failed")
		}
	}

	return result, nil
}

// net walks the horizon carrying projected on-hand forward, derives net
// requirements as the cumulative shortfall, and back-schedules planned
// order releases by the total lead time.
func (s *Service) net(buckets []entities.MRPTimeBucket, onHand decimal.Decimal, totalLeadDays int) {
	projected := onHand
	prevNet := decimal.Zero

	for i := range buckets {
		projected = projected.
			Add(buckets[i].ScheduledReceipts).
			Sub(buckets[i].GrossRequirement)
		buckets[i].ProjectedOnHand = projected

		net := decimal.Zero
		if projected.Sign() < 0 {
			net = projected.Neg()
		}
		buckets[i].NetRequirement = net

		// New shortfall appearing on this day needs a planned receipt
		// here and a release totalLeadDays earlier (clamped to today
		// when the demand is already inside lead time).
		if delta := net.Sub(prevNet); delta.Sign() > 0 {
			buckets[i].PlannedOrderReceipt = buckets[i].PlannedOrderReceipt.Add(delta)
			rel := i - totalLeadDays
			if rel < 0 {
				rel = 0
			}
			buckets[rel].PlannedOrderRelease = buckets[rel].PlannedOrderRelease.Add(delta)
		}
		prevNet = net
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from one date to another. Both are
// re-anchored to UTC midnights so a DST-shortened day still counts as a
// full day.
func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
