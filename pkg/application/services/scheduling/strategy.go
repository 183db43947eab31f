package scheduling

import (
	"fmt"
	"sort"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
)

// Strategy selects how jobs are ranked before greedy construction.
// Ranking and construction are separate concerns: every strategy feeds
// the same constructor, so feasibility never depends on the rule chosen.
type Strategy int

const (
	FCFS Strategy = iota
	EarliestDueDate
	ShortestProcessingTime
	CriticalRatio
	Genetic
)

// String method for Strategy enum
func (s Strategy) String() string {
	switch s {
	case FCFS:
		return "fcfs"
	case EarliestDueDate:
		return "edd"
	case ShortestProcessingTime:
		return "spt"
	case CriticalRatio:
		return "critical_ratio"
	case Genetic:
		return "genetic"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name to its enum value
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "fcfs":
		return FCFS, nil
	case "edd":
		return EarliestDueDate, nil
	case "spt":
		return ShortestProcessingTime, nil
	case "critical_ratio":
		return CriticalRatio, nil
	case "genetic":
		return Genetic, nil
	default:
		return FCFS, fmt.Errorf("unknown strategy %q: %w", name, planning.ErrInvalidInput)
	}
}

// orderJobs returns a new slice ranked by the strategy's dispatch key.
// Sorting is stable so equal keys preserve submission order.
func (s Strategy) orderJobs(jobs []*entities.Job) []*entities.Job {
	ordered := make([]*entities.Job, len(jobs))
	copy(ordered, jobs)

	switch s {
	case EarliestDueDate:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].DueHour < ordered[j].DueHour
		})
	case ShortestProcessingTime:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].TotalHours() < ordered[j].TotalHours()
		})
	case CriticalRatio:
		sort.SliceStable(ordered, func(i, j int) bool {
			return criticalRatio(ordered[i]) < criticalRatio(ordered[j])
		})
	}
	// FCFS keeps submission order; Genetic orders via search, not a key
	return ordered
}

// criticalRatio is time remaining until due over total processing time.
// Ratios below 1 mean the job cannot finish on time even running alone.
func criticalRatio(j *entities.Job) float64 {
	total := j.TotalHours()
	if total <= 0 {
		return 0
	}
	return (j.DueHour - j.ReleaseHour) / total
}
