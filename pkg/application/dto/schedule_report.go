package dto

import "github.com/shopfloor-io/planner/pkg/domain/entities"

// ScheduleReport pairs a produced schedule with its aggregate KPIs,
// intended for execution dispatch and reporting.
type ScheduleReport struct {
	Strategy string             `json:"strategy"`
	Schedule *entities.Schedule `json:"schedule"`

	Makespan    float64                           `json:"makespan_hours"`
	AvgFlowTime float64                           `json:"avg_flow_time_hours"`
	AvgLateness float64                           `json:"avg_lateness_hours"`
	Utilization map[entities.WorkCenterID]float64 `json:"utilization_by_work_center"`
}
