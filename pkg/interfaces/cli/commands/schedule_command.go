package commands

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopfloor-io/planner/pkg/application/dto"
	"github.com/shopfloor-io/planner/pkg/application/services/orchestration"
	"github.com/shopfloor-io/planner/pkg/application/services/scheduling"
	"github.com/shopfloor-io/planner/pkg/infrastructure/config"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
	"github.com/shopfloor-io/planner/pkg/interfaces/cli/output"
	"github.com/shopfloor-io/planner/pkg/logger"
)

// ScheduleConfig holds configuration for the schedule command
type ScheduleConfig struct {
	ScenarioDir string
	Strategy    string
	Start       string
	WindowDays  int
	Seed        int64
	Format      string
	OutputDir   string
	Verbose     bool
}

// ScheduleCommand sequences a scenario's demands across its work
// centers: demands become production orders, orders become jobs, and
// the chosen dispatch strategy builds the schedule.
type ScheduleCommand struct {
	config ScheduleConfig
}

// NewScheduleCommand creates a new schedule command
func NewScheduleCommand(config ScheduleConfig) *ScheduleCommand {
	return &ScheduleCommand{config: config}
}

// Execute runs the schedule command
func (c *ScheduleCommand) Execute(ctx context.Context) error {
	strategy, err := scheduling.ParseStrategy(c.config.Strategy)
	if err != nil {
		return err
	}
	start, err := time.Parse("2006-01-02", c.config.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", c.config.Start)
	}
	if c.config.WindowDays <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.config.WindowDays)
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
	orchestrator := orchestration.NewPlanningOrchestratorWithConfig(
		s.master, s.master, s.master, s.inventory, s.orders, store, logger.Log,
		orchestration.Config{WorkdayMinutes: cfg.Planning.WorkdayMinutes},
	)

	end := start.AddDate(0, 0, c.config.WindowDays)
	jobs, err := orchestrator.BuildJobs(ctx, start, end)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no open orders in window %s + %d days", c.config.Start, c.config.WindowDays)
	}

	centers, err := s.master.ListWorkCenters(ctx)
	if err != nil {
		return err
	}

	seed := c.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	scheduler := scheduling.NewScheduler(
		centers,
		scheduling.Options{
			PopulationSize: cfg.Genetic.PopulationSize,
			Generations:    cfg.Genetic.Generations,
			MutationRate:   cfg.Genetic.MutationRate,
			Rand:           rand.New(rand.NewSource(seed)),
			Parallel:       cfg.Genetic.Parallel,
			Events:         store,
		},
		logger.Log,
	)

	schedule, err := scheduler.ScheduleJobs(ctx, jobs, strategy)
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	perf := scheduling.Evaluate(schedule, jobs)
	report := &dto.ScheduleReport{
		Strategy:    strategy.String(),
		Schedule:    schedule,
		Makespan:    perf.Makespan,
		AvgFlowTime: perf.AvgFlowTime,
		AvgLateness: perf.AvgLateness,
		Utilization: perf.Utilization,
	}

	return output.RenderSchedule(report, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	})
}
