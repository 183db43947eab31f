package dto

import (
	"time"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// CapacityAnalysis reports a work center's load picture over a window.
// It is a pure aggregation: the planner never reassigns load, it only
// reports it, and the caller decides what to do about bottlenecks.
type CapacityAnalysis struct {
	WorkCenterID entities.WorkCenterID `json:"work_center_id"`
	Start        time.Time             `json:"start"`
	End          time.Time             `json:"end"`

	Days []entities.DailyCapacity `json:"days"`

	TotalCapacityMinutes float64 `json:"total_capacity_minutes"`
	TotalLoadMinutes     float64 `json:"total_load_minutes"`
	AvailableMinutes     float64 `json:"available_minutes"`
	AverageUtilization   float64 `json:"average_utilization"`

	Bottlenecks     []entities.Bottleneck `json:"bottlenecks"`
	Recommendations []string              `json:"recommendations"`
}
