package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfloor-io/planner/pkg/application/services/capacity"
	"github.com/shopfloor-io/planner/pkg/application/services/orchestration"
	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/infrastructure/config"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
	"github.com/shopfloor-io/planner/pkg/interfaces/cli/output"
	"github.com/shopfloor-io/planner/pkg/logger"
)

// CapacityConfig holds configuration for the capacity command
type CapacityConfig struct {
	ScenarioDir  string
	WorkCenterID string
	Start        string
	End          string
	Format       string
	OutputDir    string
	Verbose      bool
}

// CapacityCommand analyzes one work center's load over a window. The
// scenario's demands are first materialized into production orders so
// their capacity snapshots carry the load.
type CapacityCommand struct {
	config CapacityConfig
}

// NewCapacityCommand creates a new capacity command
func NewCapacityCommand(config CapacityConfig) *CapacityCommand {
	return &CapacityCommand{config: config}
}

// Execute runs the capacity command
func (c *CapacityCommand) Execute(ctx context.Context) error {
	if c.config.WorkCenterID == "" {
		return fmt.Errorf("work center id is required")
	}
	start, err := time.Parse("2006-01-02", c.config.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", c.config.Start)
	}
	end, err := time.Parse("2006-01-02", c.config.End)
	if err != nil {
		return fmt.Errorf("invalid end date %q (expected YYYY-MM-DD)", c.config.End)
	}

	s, err := loadScenario(ctx, c.config.ScenarioDir)
	if err != nil {
		return err
	}
	store := events.NewMemoryStore(logger.Log)
	if err := materializeOrders(ctx, s, store); err != nil {
		return err
	}

	cfg := config.Load()
	planner := capacity.NewPlannerWithConfig(
		s.master, s.orders, logger.Log,
		capacity.Config{
			BottleneckAlertCount: cfg.Capacity.BottleneckAlertCount,
			AvgUtilizationAlert:  cfg.Capacity.AvgUtilizationAlert,
			Events:               store,
		},
	)

	analysis, err := planner.Analyze(ctx, entities.WorkCenterID(c.config.WorkCenterID), start, end)
	if err != nil {
		return fmt.Errorf("capacity analysis: %w", err)
	}

	return output.RenderCapacity(analysis, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	})
}

// materializeOrders turns every scenario demand into a planned
// production order so its capacity snapshot contributes load. Lifecycle
// events land in the given store.
func materializeOrders(ctx context.Context, s *scenario, store events.Store) error {
	cfg := config.Load()
	orchestrator := orchestration.NewPlanningOrchestratorWithConfig(
		s.master, s.master, s.master, s.inventory, s.orders, store, logger.Log,
		orchestration.Config{WorkdayMinutes: cfg.Planning.WorkdayMinutes},
	)

	for productID, demands := range s.demands {
		for _, d := range demands {
			if _, err := orchestrator.CreateProductionOrder(
				ctx, productID, d.Quantity, entities.PriorityNormal, d.Date,
			); err != nil {
				return fmt.Errorf("order for %s x %s: %w", productID, d.Quantity, err)
			}
		}
	}
	return nil
}
