package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shopfloor-io/planner/pkg/infrastructure/config"
	"github.com/shopfloor-io/planner/pkg/interfaces/cli/commands"
	"github.com/shopfloor-io/planner/pkg/logger"
)

func newScenarioFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "scenario",
		Usage:    "Directory with the scenario CSV files",
		Required: true,
		EnvVars:  []string{"PLANNER_SCENARIO_DIR"},
	}
}

func newFormatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: text or json",
		Value: "text",
	}
}

func newOutputDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "output-dir",
		Usage: "Write JSON reports to this directory instead of stdout",
	}
}

func newVerboseFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
	}
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Log.Level)

	app := &cli.App{
		Name:  "planner",
		Usage: "Production planning: material requirements, capacity, and shop-floor schedules",
		Commands: []*cli.Command{
			{
				Name:  "mrp",
				Usage: "Run time-phased material requirements planning over a scenario",
				Flags: []cli.Flag{
					newScenarioFlag(),
					&cli.StringFlag{
						Name:  "product",
						Usage: "Plan a single product (default: every product with demand)",
					},
					&cli.IntFlag{
						Name:  "horizon",
						Usage: "Planning horizon in days",
						Value: 90,
					},
					newFormatFlag(),
					newOutputDirFlag(),
					newVerboseFlag(),
				},
				Action: func(c *cli.Context) error {
					applyVerbose(c)
					cmd := commands.NewMRPCommand(commands.MRPConfig{
						ScenarioDir: c.String("scenario"),
						ProductID:   c.String("product"),
						HorizonDays: c.Int("horizon"),
						Format:      c.String("format"),
						OutputDir:   c.String("output-dir"),
						Verbose:     c.Bool("verbose"),
					})
					return cmd.Execute(c.Context)
				},
			},
			{
				Name:  "capacity",
				Usage: "Analyze one work center's load over a date window",
				Flags: []cli.Flag{
					newScenarioFlag(),
					&cli.StringFlag{
						Name:     "work-center",
						Usage:    "Work center to analyze",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "Window start (YYYY-MM-DD)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "end",
						Usage:    "Window end (YYYY-MM-DD)",
						Required: true,
					},
					newFormatFlag(),
					newOutputDirFlag(),
					newVerboseFlag(),
				},
				Action: func(c *cli.Context) error {
					applyVerbose(c)
					cmd := commands.NewCapacityCommand(commands.CapacityConfig{
						ScenarioDir:  c.String("scenario"),
						WorkCenterID: c.String("work-center"),
						Start:        c.String("start"),
						End:          c.String("end"),
						Format:       c.String("format"),
						OutputDir:    c.String("output-dir"),
						Verbose:      c.Bool("verbose"),
					})
					return cmd.Execute(c.Context)
				},
			},
			{
				Name:  "schedule",
				Usage: "Sequence a scenario's open orders across work centers",
				Flags: []cli.Flag{
					newScenarioFlag(),
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Dispatch strategy: fcfs, edd, spt, critical_ratio, or genetic",
						Value: "edd",
					},
					&cli.StringFlag{
						Name:     "start",
						Usage:    "Scheduling window start (YYYY-MM-DD)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "window",
						Usage: "Scheduling window length in days",
						Value: 30,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for the genetic strategy (0 = time-based)",
					},
					newFormatFlag(),
					newOutputDirFlag(),
					newVerboseFlag(),
				},
				Action: func(c *cli.Context) error {
					applyVerbose(c)
					cmd := commands.NewScheduleCommand(commands.ScheduleConfig{
						ScenarioDir: c.String("scenario"),
						Strategy:    c.String("strategy"),
						Start:       c.String("start"),
						WindowDays:  c.Int("window"),
						Seed:        c.Int64("seed"),
						Format:      c.String("format"),
						OutputDir:   c.String("output-dir"),
						Verbose:     c.Bool("verbose"),
					})
					return cmd.Execute(c.Context)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func applyVerbose(c *cli.Context) {
	if c.Bool("verbose") {
		logger.SetLevel("debug")
	}
}
