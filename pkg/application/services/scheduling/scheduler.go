package scheduling

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
)

// Scheduler builds feasible, resource-serial schedules for a set of
// jobs over shared work centers. Construction is greedy and
// non-preemptive: feasibility holds by construction, optimality is the
// genetic strategy's concern.
type Scheduler struct {
	workCenters map[entities.WorkCenterID]*entities.WorkCenter
	genetic     Options
	log         zerolog.Logger
}

// NewScheduler creates a scheduler over the given work centers
func NewScheduler(
	workCenters []*entities.WorkCenter,
	genetic Options,
	log zerolog.Logger,
) *Scheduler {
	byID := make(map[entities.WorkCenterID]*entities.WorkCenter, len(workCenters))
	for _, wc := range workCenters {
		byID[wc.ID] = wc
	}
	return &Scheduler{
		workCenters: byID,
		genetic:     genetic,
		log:         log.With().Str("component", "scheduler").Logger(),
	}
}

// ScheduleJobs sequences jobs under the given strategy
func (s *Scheduler) ScheduleJobs(
	ctx context.Context, jobs []*entities.Job, strategy Strategy,
) (*entities.Schedule, error) {
	if err := s.validate(jobs); err != nil {
		return nil, err
	}

	var schedule *entities.Schedule
	if strategy == Genetic {
		var err error
		schedule, err = s.scheduleGenetic(ctx, jobs)
		if err != nil {
			return nil, err
		}
	} else {
		schedule = construct(strategy.orderJobs(jobs))
	}

	s.log.Info().
		Str("strategy", strategy.String()).
		Int("jobs", len(jobs)).
		Float64("makespan_hours", schedule.MaxEnd()).
		Msg("schedule produced")

	if s.genetic.Events != nil {
		if err := s.genetic.Events.Append("scheduler", events.NewScheduleProducedEvent(
			strategy.String(), len(jobs), schedule.MaxEnd(),
		)); err != nil {
			s.log.Warn().Err(err).Msg("event publish failed")
		}
	}

	return schedule, nil
}

func (s *Scheduler) validate(jobs []*entities.Job) error {
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs to schedule: %w", planning.ErrInvalidInput)
	}
	for _, job := range jobs {
		if job == nil || len(job.Operations) == 0 {
			return fmt.Errorf("malformed job list: %w", planning.ErrInvalidInput)
		}
		for _, op := range job.Operations {
			wc, ok := s.workCenters[op.WorkCenterID]
			if !ok {
				return fmt.Errorf(
					"job %s references unknown work center %s: %w",
					job.ID, op.WorkCenterID, planning.ErrNotFound,
				)
			}
			if wc.DailyCapacityMinutes <= 0 {
				return fmt.Errorf(
					"job %s routed through zero-capacity work center %s: %w",
					job.ID, op.WorkCenterID, planning.ErrInfeasible,
				)
			}
			if op.Duration() <= 0 {
				return fmt.Errorf(
					"job %s operation %q has no processing time: %w",
					job.ID, op.Name, planning.ErrInfeasible,
				)
			}
		}
	}
	return nil
}

// construct places each job's operations in the given job order. The
// free-time cursors are rebuilt per call; no state survives between
// scheduling runs.
func construct(ordered []*entities.Job) *entities.Schedule {
	schedule := entities.NewSchedule()
	centerFree := make(map[entities.WorkCenterID]float64)

	for _, job := range ordered {
		cursor := job.ReleaseHour
		for i, op := range job.Operations {
			start := cursor
			if free := centerFree[op.WorkCenterID]; free > start {
				start = free
			}
			end := start + op.Duration()

			schedule.Add(op.WorkCenterID, entities.ScheduledSlot{
				JobID:     job.ID,
				Operation: i,
				Name:      op.Name,
				Start:     start,
				End:       end,
			})

			cursor = end
			centerFree[op.WorkCenterID] = end
		}
	}
	return schedule
}
