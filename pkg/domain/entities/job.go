package entities

import "fmt"

// JobID represents a unique scheduling job identifier
type JobID string

// JobOperation is one machine-bound step of a job. Times are hours.
type JobOperation struct {
	WorkCenterID    WorkCenterID
	Name            string
	SetupHours      float64
	ProcessingHours float64
}

// Duration returns setup plus processing hours
func (op JobOperation) Duration() float64 {
	return op.SetupHours + op.ProcessingHours
}

// Job is the scheduling-time abstraction of work to be sequenced: an
// ordered list of operations, each bound to exactly one work center.
// One production order maps to one job. Times are hours measured from a
// per-schedule t=0 origin.
type Job struct {
	ID          JobID
	OrderID     OrderID
	ProductID   ProductID
	Priority    OrderPriority
	ReleaseHour float64
	DueHour     float64
	Operations  []JobOperation
}

// NewJob creates a validated Job
func NewJob(
	id JobID,
	orderID OrderID,
	productID ProductID,
	priority OrderPriority,
	releaseHour, dueHour float64,
	operations []JobOperation,
) (*Job, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("job id cannot be empty")
	}
	if len(operations) == 0 {
		return nil, fmt.Errorf("job %s must have at least one operation", id)
	}
	if releaseHour < 0 {
		return nil, fmt.Errorf("release hour cannot be negative, got %g", releaseHour)
	}
	for i, op := range operations {
		if string(op.WorkCenterID) == "" {
			return nil, fmt.Errorf("job %s operation %d has no work center", id, i)
		}
		if op.SetupHours < 0 || op.ProcessingHours < 0 {
			return nil, fmt.Errorf("job %s operation %d has negative time", id, i)
		}
	}

	return &Job{
		ID:          id,
		OrderID:     orderID,
		ProductID:   productID,
		Priority:    priority,
		ReleaseHour: releaseHour,
		DueHour:     dueHour,
		Operations:  operations,
	}, nil
}

// TotalHours returns the job's total setup plus processing time
func (j Job) TotalHours() float64 {
	total := 0.0
	for _, op := range j.Operations {
		total += op.Duration()
	}
	return total
}

// ScheduledSlot is one placed operation on a work center's timeline
type ScheduledSlot struct {
	JobID     JobID
	Operation int
	Name      string
	Start     float64
	End       float64
}

// Schedule maps each work center to its time-ordered slot sequence.
// Within one work center slots never overlap; across a job, operation
// k+1 starts no earlier than operation k ends.
type Schedule struct {
	Slots map[WorkCenterID][]ScheduledSlot
}

// NewSchedule creates an empty schedule
func NewSchedule() *Schedule {
	return &Schedule{Slots: make(map[WorkCenterID][]ScheduledSlot)}
}

// Add appends a slot to a work center's sequence
func (s *Schedule) Add(wc WorkCenterID, slot ScheduledSlot) {
	s.Slots[wc] = append(s.Slots[wc], slot)
}

// MaxEnd returns the latest end time across all slots (the makespan)
func (s *Schedule) MaxEnd() float64 {
	max := 0.0
	for _, slots := range s.Slots {
		for _, slot := range slots {
			if slot.End > max {
				max = slot.End
			}
		}
	}
	return max
}

// JobCompletion returns the end time of each job's last operation
func (s *Schedule) JobCompletion() map[JobID]float64 {
	done := make(map[JobID]float64)
	for _, slots := range s.Slots {
		for _, slot := range slots {
			if slot.End > done[slot.JobID] {
				done[slot.JobID] = slot.End
			}
		}
	}
	return done
}
