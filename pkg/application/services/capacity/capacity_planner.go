package capacity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfloor-io/planner/pkg/application/dto"
	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/domain/repositories"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
)

// Config holds capacity analysis alert thresholds
type Config struct {
	// BottleneckAlertCount is the overloaded-day count above which
	// remediation recommendations are emitted.
	BottleneckAlertCount int
	// AvgUtilizationAlert is the window-average utilization percentage
	// above which recommendations are emitted.
	AvgUtilizationAlert float64

	// Events receives one capacity.bottleneck.identified event per
	// overloaded day when set.
	Events events.Store
}

// Planner aggregates planned production-order load against a work
// center's finite daily capacity and classifies each day's utilization.
// It is a reporter, not an optimizer: it never reassigns load.
type Planner struct {
	workCenters repositories.WorkCenterRepository
	orders      repositories.ProductionOrderRepository

	cfg Config
	log zerolog.Logger
}

// NewPlanner creates a capacity planner with default thresholds
func NewPlanner(
	workCenters repositories.WorkCenterRepository,
	orders repositories.ProductionOrderRepository,
	log zerolog.Logger,
) *Planner {
	return NewPlannerWithConfig(workCenters, orders, log, Config{})
}

// NewPlannerWithConfig creates a capacity planner with custom thresholds
func NewPlannerWithConfig(
	workCenters repositories.WorkCenterRepository,
	orders repositories.ProductionOrderRepository,
	log zerolog.Logger,
	cfg Config,
) *Planner {
	if cfg.BottleneckAlertCount <= 0 {
		cfg.BottleneckAlertCount = 3
	}
	if cfg.AvgUtilizationAlert <= 0 {
		cfg.AvgUtilizationAlert = 90
	}
	return &Planner{
		workCenters: workCenters,
		orders:      orders,
		cfg:         cfg,
		log:         log.With().Str("component", "capacity").Logger(),
	}
}

// Analyze aggregates load for one work center over [start, end]
func (p *Planner) Analyze(
	ctx context.Context,
	workCenterID entities.WorkCenterID,
	start, end time.Time,
) (*dto.CapacityAnalysis, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("analysis window end before start: %w", planning.ErrInvalidInput)
	}

	wc, err := p.workCenters.GetWorkCenter(ctx, workCenterID)
	if err != nil {
		return nil, fmt.Errorf("work center %s: %w", workCenterID, err)
	}
	if wc.DailyCapacityMinutes <= 0 {
		return nil, fmt.Errorf(
			"work center %s has zero daily capacity: %w", workCenterID, planning.ErrInfeasible,
		)
	}

	orders, err := p.orders.ListOpenInWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("orders in window: %w", err)
	}

	days := daysBetween(start, end) + 1
	load := make([]float64, days)

	for _, order := range orders {
		for _, req := range order.Capacity {
			if req.WorkCenterID != workCenterID {
				continue
			}
			if req.RequiredMinutes <= 0 {
				return nil, fmt.Errorf(
					"order %s operation %q has no capacity requirement data: %w",
					order.ID, req.OperationName, planning.ErrInfeasible,
				)
			}
			spreadLoad(load, start, req)
		}
	}

	analysis := &dto.CapacityAnalysis{
		WorkCenterID: workCenterID,
		Start:        start,
		End:          end,
		Days:         make([]entities.DailyCapacity, days),
	}

	operatingDays := 0
	utilizationSum := 0.0
	capacity := wc.EffectiveDailyMinutes()

	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		day := entities.DailyCapacity{
			Date:        date,
			Operating:   wc.Calendar.IsWorkday(date),
			LoadMinutes: load[i],
		}

		if day.Operating {
			day.CapacityMinutes = capacity
			day.Utilization = load[i] / capacity * 100
			day.Status = entities.ClassifyUtilization(day.Utilization)
			if load[i] > capacity {
				day.OverloadMinutes = load[i] - capacity
			}

			operatingDays++
			utilizationSum += day.Utilization
			analysis.TotalCapacityMinutes += capacity
			if capacity > load[i] {
				analysis.AvailableMinutes += capacity - load[i]
			}
		} else if load[i] > 0 {
			// Load landing on a closed day has nowhere to run
			day.Status = entities.Overloaded
			day.OverloadMinutes = load[i]
		}

		analysis.TotalLoadMinutes += load[i]

		if day.Status == entities.Overloaded {
			analysis.Bottlenecks = append(analysis.Bottlenecks, entities.Bottleneck{
				Date:            date,
				Utilization:     day.Utilization,
				OverloadMinutes: day.OverloadMinutes,
			})
		}

		analysis.Days[i] = day
	}

	if operatingDays > 0 {
		analysis.AverageUtilization = utilizationSum / float64(operatingDays)
	}

	analysis.Recommendations = p.recommend(analysis)

	if p.cfg.Events != nil {
		for _, b := range analysis.Bottlenecks {
			if err := p.cfg.Events.Append(string(workCenterID),
				events.NewBottleneckIdentifiedEvent(workCenterID, b.Date, b.OverloadMinutes),
			); err != nil {
				p.log.Warn().Err(err).Msg("event publish failed")
			}
		}
	}

	p.log.Info().
		Str("work_center", string(workCenterID)).
		Int("days", days).
		Float64("avg_utilization", analysis.AverageUtilization).
		Int("bottlenecks", len(analysis.Bottlenecks)).
		Msg("capacity analysis completed")

	return analysis, nil
}

// recommend emits qualitative remediation guidance when the window shows
// sustained overload. Acting on it is the caller's responsibility.
func (p *Planner) recommend(a *dto.CapacityAnalysis) []string {
	var recs []string
	if len(a.Bottlenecks) > p.cfg.BottleneckAlertCount {
		recs = append(recs, fmt.Sprintf(
			"%d overloaded days in window: add shift capacity on work center %s",
			len(a.Bottlenecks), a.WorkCenterID,
		))
	}
	if a.AverageUtilization > p.cfg.AvgUtilizationAlert {
		recs = append(recs, fmt.Sprintf(
			"average utilization %.1f%% exceeds %.0f%%: consider outsourcing excess load",
			a.AverageUtilization, p.cfg.AvgUtilizationAlert,
		))
	}
	return recs
}

// spreadLoad distributes a capacity requirement evenly across the days
// it spans, adding only the portion that falls inside the window.
func spreadLoad(load []float64, windowStart time.Time, req entities.CapacityRequirement) {
	reqStart := truncateDay(req.Start)
	reqEnd := truncateDay(req.End)
	if reqEnd.Before(reqStart) {
		reqEnd = reqStart
	}
	span := daysBetween(reqStart, reqEnd) + 1
	perDay := req.RequiredMinutes / float64(span)

	for d := 0; d < span; d++ {
		idx := daysBetween(windowStart, reqStart.AddDate(0, 0, d))
		if idx >= 0 && idx < len(load) {
			load[idx] += perDay
		}
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
