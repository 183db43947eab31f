package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopfloor-io/planner/pkg/application/services/mrp"
	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/infrastructure/config"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
	"github.com/shopfloor-io/planner/pkg/interfaces/cli/output"
	"github.com/shopfloor-io/planner/pkg/logger"
)

// MRPConfig holds configuration for the mrp command
type MRPConfig struct {
	ScenarioDir string
	ProductID   string
	HorizonDays int
	Format      string
	OutputDir   string
	Verbose     bool
}

// MRPCommand runs time-phased netting over a scenario's demands
type MRPCommand struct {
	config MRPConfig
}

// NewMRPCommand creates a new mrp command with the given configuration
func NewMRPCommand(config MRPConfig) *MRPCommand {
	return &MRPCommand{config: config}
}

// Execute runs the mrp command
func (c *MRPCommand) Execute(ctx context.Context) error {
	if c.config.HorizonDays <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.config.HorizonDays)
	}

	s, err := loadScenario(ctx, c.config.ScenarioDir)
	if err != nil {
		return err
	}

	cfg := config.Load()
	service := mrp.NewServiceWithConfig(
		s.master, s.master, s.master, s.inventory, s.orders,
		logger.Log,
		mrp.Config{
			WorkdayMinutes: cfg.Planning.WorkdayMinutes,
			Events:         events.NewMemoryStore(logger.Log),
		},
	)

	products := c.selectProducts(s)
	if len(products) == 0 {
		return fmt.Errorf("no demands found for product %q", c.config.ProductID)
	}

	for _, productID := range products {
		result, err := service.RunMulti(ctx, productID, s.demands[productID], c.config.HorizonDays)
		if err != nil {
			return fmt.Errorf("mrp run for %s: %w", productID, err)
		}

		if err := output.RenderMRP(result, output.Config{
			Format:    c.config.Format,
			OutputDir: c.config.OutputDir,
			Verbose:   c.config.Verbose,
		}); err != nil {
			return err
		}
	}
	return nil
}

// selectProducts returns the demanded products to plan, in stable order
func (c *MRPCommand) selectProducts(s *scenario) []entities.ProductID {
	if c.config.ProductID != "" {
		id := entities.ProductID(c.config.ProductID)
		if _, ok := s.demands[id]; !ok {
			return nil
		}
		return []entities.ProductID{id}
	}

	products := make([]entities.ProductID, 0, len(s.demands))
	for id := range s.demands {
		products = append(products, id)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })
	return products
}
