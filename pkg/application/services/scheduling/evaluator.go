package scheduling

import (
	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// Performance holds a schedule's aggregate KPIs. Times are hours.
type Performance struct {
	Makespan    float64
	AvgFlowTime float64
	AvgLateness float64
	Utilization map[entities.WorkCenterID]float64
}

// Evaluate computes makespan, average flow time, average lateness, and
// per-work-center utilization. It is pure: usable for reporting and as
// the genetic search's fitness signal alike.
func Evaluate(schedule *entities.Schedule, jobs []*entities.Job) Performance {
	perf := Performance{
		Makespan:    schedule.MaxEnd(),
		Utilization: make(map[entities.WorkCenterID]float64),
	}

	completion := schedule.JobCompletion()
	for _, job := range jobs {
		flow := completion[job.ID]
		perf.AvgFlowTime += flow
		perf.AvgLateness += flow - job.DueHour
	}
	if len(jobs) > 0 {
		perf.AvgFlowTime /= float64(len(jobs))
		perf.AvgLateness /= float64(len(jobs))
	}

	if perf.Makespan > 0 {
		for wc, slots := range schedule.Slots {
			busy := 0.0
			for _, slot := range slots {
				busy += slot.End - slot.Start
			}
			perf.Utilization[wc] = busy / perf.Makespan
		}
	}

	return perf
}
