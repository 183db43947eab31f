package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds planner tunables. Values come from the environment with
// sensible defaults; a .env file is honored when present.
type Config struct {
	Log      LogConfig
	Planning PlanningConfig
	Capacity CapacityConfig
	Genetic  GeneticConfig
}

type LogConfig struct {
	Level string
}

type PlanningConfig struct {
	// WorkdayMinutes converts routing minutes into production days when
	// back-scheduling lead times.
	WorkdayMinutes float64
}

type CapacityConfig struct {
	// BottleneckAlertCount is the overloaded-day count above which the
	// planner emits remediation recommendations.
	BottleneckAlertCount int
	// AvgUtilizationAlert is the window-average utilization percentage
	// above which recommendations are emitted.
	AvgUtilizationAlert float64
}

type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	Parallel       bool
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration once and returns the shared instance
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("PLANNING_WORKDAY_MINUTES", 480.0)
		viper.SetDefault("CAPACITY_BOTTLENECK_ALERT_COUNT", 3)
		viper.SetDefault("CAPACITY_AVG_UTILIZATION_ALERT", 90.0)
		viper.SetDefault("GA_POPULATION_SIZE", 50)
		viper.SetDefault("GA_GENERATIONS", 100)
		viper.SetDefault("GA_MUTATION_RATE", 0.10)
		viper.SetDefault("GA_PARALLEL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Log: LogConfig{
				Level: viper.GetString("LOG_LEVEL"),
			},
			Planning: PlanningConfig{
				WorkdayMinutes: viper.GetFloat64("PLANNING_WORKDAY_MINUTES"),
			},
			Capacity: CapacityConfig{
				BottleneckAlertCount: viper.GetInt("CAPACITY_BOTTLENECK_ALERT_COUNT"),
				AvgUtilizationAlert:  viper.GetFloat64("CAPACITY_AVG_UTILIZATION_ALERT"),
			},
			Genetic: GeneticConfig{
				PopulationSize: viper.GetInt("GA_POPULATION_SIZE"),
				Generations:    viper.GetInt("GA_GENERATIONS"),
				MutationRate:   viper.GetFloat64("GA_MUTATION_RATE"),
				Parallel:       viper.GetBool("GA_PARALLEL"),
			},
		}
	})
	return instance
}
