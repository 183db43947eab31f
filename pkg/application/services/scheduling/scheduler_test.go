package scheduling

import (
	"context"
	"math/rand"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
	"github.com/shopfloor-io/planner/pkg/domain/planning"
	"github.com/shopfloor-io/planner/pkg/infrastructure/events"
)

func testWorkCenters(t *testing.T, ids ...entities.WorkCenterID) []*entities.WorkCenter {
	t.Helper()
	var out []*entities.WorkCenter
	for _, id := range ids {
		wc, err := entities.NewWorkCenter(
			id, string(id), 480, 1.0,
			decimal.NewFromInt(50), decimal.NewFromInt(30),
			entities.ContinuousCalendar(),
		)
		require.NoError(t, err)
		out = append(out, wc)
	}
	return out
}

func testJob(t *testing.T, id entities.JobID, due float64, hours ...float64) *entities.Job {
	t.Helper()
	centers := []entities.WorkCenterID{"WC1", "WC2", "WC3"}
	var ops []entities.JobOperation
	for i, h := range hours {
		ops = append(ops, entities.JobOperation{
			WorkCenterID:    centers[i%len(centers)],
			Name:            "op",
			ProcessingHours: h,
		})
	}
	job, err := entities.NewJob(id, "", "", entities.PriorityNormal, 0, due, ops)
	require.NoError(t, err)
	return job
}

// threeJobs is a fixed job set where EDD and SPT rank differently:
// two operations per job across two shared work centers.
func threeJobs(t *testing.T) []*entities.Job {
	t.Helper()
	return []*entities.Job{
		testJob(t, "J1", 30, 4, 3),
		testJob(t, "J2", 8, 1, 1),
		testJob(t, "J3", 10, 2, 6),
	}
}

func newTestScheduler(t *testing.T, seed int64) *Scheduler {
	t.Helper()
	return NewScheduler(
		testWorkCenters(t, "WC1", "WC2", "WC3"),
		DefaultOptions(rand.New(rand.NewSource(seed))),
		zerolog.Nop(),
	)
}

// assertFeasible checks the two schedule invariants: per work center no
// two slots overlap, and within a job each operation starts no earlier
// than its predecessor ends.
func assertFeasible(t *testing.T, schedule *entities.Schedule, jobs []*entities.Job) {
	t.Helper()

	for wc, slots := range schedule.Slots {
		ordered := append([]entities.ScheduledSlot(nil), slots...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })
		for i := 1; i < len(ordered); i++ {
			assert.GreaterOrEqual(t, ordered[i].Start, ordered[i-1].End,
				"overlapping slots on %s", wc)
		}
	}

	for _, job := range jobs {
		ends := make([]float64, len(job.Operations))
		starts := make([]float64, len(job.Operations))
		for _, slots := range schedule.Slots {
			for _, slot := range slots {
				if slot.JobID == job.ID {
					starts[slot.Operation] = slot.Start
					ends[slot.Operation] = slot.End
				}
			}
		}
		for i := 1; i < len(job.Operations); i++ {
			assert.GreaterOrEqual(t, starts[i], ends[i-1],
				"job %s operation %d starts before its predecessor ends", job.ID, i)
		}
	}
}

func TestScheduler_AllStrategiesProduceFeasibleSchedules(t *testing.T) {
	strategies := []Strategy{FCFS, EarliestDueDate, ShortestProcessingTime, CriticalRatio, Genetic}

	for _, strategy := range strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			scheduler := newTestScheduler(t, 42)
			jobs := []*entities.Job{
				testJob(t, "J1", 30, 4, 3, 2),
				testJob(t, "J2", 8, 1, 1),
				testJob(t, "J3", 10, 2, 6),
				testJob(t, "J4", 20, 3, 1, 4),
				testJob(t, "J5", 15, 2, 2),
			}

			schedule, err := scheduler.ScheduleJobs(context.Background(), jobs, strategy)
			require.NoError(t, err)
			assertFeasible(t, schedule, jobs)
		})
	}
}

func TestScheduler_EDDAndSPTDifferOnFixedJobSet(t *testing.T) {
	ctx := context.Background()
	scheduler := newTestScheduler(t, 1)
	jobs := threeJobs(t)

	edd, err := scheduler.ScheduleJobs(ctx, jobs, EarliestDueDate)
	require.NoError(t, err)
	spt, err := scheduler.ScheduleJobs(ctx, jobs, ShortestProcessingTime)
	require.NoError(t, err)

	assertFeasible(t, edd, jobs)
	assertFeasible(t, spt, jobs)

	// EDD runs J2, J3, J1 for a makespan of 12; SPT runs J2, J1, J3
	// and finishes at 14. Same inputs, different rule, different result.
	assert.InDelta(t, 12, edd.MaxEnd(), 0.001)
	assert.InDelta(t, 14, spt.MaxEnd(), 0.001)
}

func TestScheduler_StableTieBreakPreservesSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	scheduler := newTestScheduler(t, 1)

	// Identical due dates: EDD must keep J1 before J2
	jobs := []*entities.Job{
		testJob(t, "J1", 10, 2),
		testJob(t, "J2", 10, 2),
	}

	schedule, err := scheduler.ScheduleJobs(ctx, jobs, EarliestDueDate)
	require.NoError(t, err)

	slots := schedule.Slots["WC1"]
	require.Len(t, slots, 2)
	assert.Equal(t, entities.JobID("J1"), slots[0].JobID)
	assert.Equal(t, entities.JobID("J2"), slots[1].JobID)
}

func TestScheduler_ReleaseHourDelaysFirstOperation(t *testing.T) {
	ctx := context.Background()
	scheduler := newTestScheduler(t, 1)

	job, err := entities.NewJob("J1", "", "", entities.PriorityNormal, 5, 20,
		[]entities.JobOperation{{WorkCenterID: "WC1", Name: "op", ProcessingHours: 2}})
	require.NoError(t, err)

	schedule, err := scheduler.ScheduleJobs(ctx, []*entities.Job{job}, FCFS)
	require.NoError(t, err)

	slots := schedule.Slots["WC1"]
	require.Len(t, slots, 1)
	assert.InDelta(t, 5, slots[0].Start, 0.001)
	assert.InDelta(t, 7, slots[0].End, 0.001)
}

func TestScheduler_PublishesScheduleProducedEvent(t *testing.T) {
	ctx := context.Background()
	store := events.NewMemoryStore(zerolog.Nop())
	opts := DefaultOptions(rand.New(rand.NewSource(1)))
	opts.Events = store
	scheduler := NewScheduler(testWorkCenters(t, "WC1", "WC2", "WC3"), opts, zerolog.Nop())

	jobs := threeJobs(t)
	schedule, err := scheduler.ScheduleJobs(ctx, jobs, EarliestDueDate)
	require.NoError(t, err)

	published, err := store.ReadStream("scheduler", 1)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, events.ScheduleProducedEvent, published[0].Type)

	payload, ok := published[0].Data.(events.ScheduleProduced)
	require.True(t, ok, "unexpected payload type %T", published[0].Data)
	assert.Equal(t, "edd", payload.Strategy)
	assert.Equal(t, len(jobs), payload.Jobs)
	assert.InDelta(t, schedule.MaxEnd(), payload.MakespanHours, 0.001)
}

func TestScheduler_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty job list", func(t *testing.T) {
		scheduler := newTestScheduler(t, 1)
		_, err := scheduler.ScheduleJobs(ctx, nil, FCFS)
		assert.ErrorIs(t, err, planning.ErrInvalidInput)
	})

	t.Run("unknown work center", func(t *testing.T) {
		scheduler := NewScheduler(testWorkCenters(t, "WC1"), Options{}, zerolog.Nop())
		job := testJob(t, "J1", 10, 2, 3)
		_, err := scheduler.ScheduleJobs(ctx, []*entities.Job{job}, FCFS)
		assert.ErrorIs(t, err, planning.ErrNotFound)
	})

	t.Run("zero-capacity work center", func(t *testing.T) {
		wc, err := entities.NewWorkCenter(
			"WC1", "idle", 0, 1.0,
			decimal.Zero, decimal.Zero, entities.DefaultCalendar(),
		)
		require.NoError(t, err)
		scheduler := NewScheduler([]*entities.WorkCenter{wc}, Options{}, zerolog.Nop())
		job := testJob(t, "J1", 10, 2)
		_, err = scheduler.ScheduleJobs(ctx, []*entities.Job{job}, FCFS)
		assert.ErrorIs(t, err, planning.ErrInfeasible)
	})

	t.Run("zero-duration operation", func(t *testing.T) {
		scheduler := newTestScheduler(t, 1)
		job, err := entities.NewJob("J1", "", "", entities.PriorityNormal, 0, 10,
			[]entities.JobOperation{{WorkCenterID: "WC1", Name: "noop"}})
		require.NoError(t, err)
		_, err = scheduler.ScheduleJobs(ctx, []*entities.Job{job}, FCFS)
		assert.ErrorIs(t, err, planning.ErrInfeasible)
	})
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    Strategy
		wantErr bool
	}{
		{"fcfs", FCFS, false},
		{"edd", EarliestDueDate, false},
		{"spt", ShortestProcessingTime, false},
		{"critical_ratio", CriticalRatio, false},
		{"genetic", Genetic, false},
		{"bogus", FCFS, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, planning.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
