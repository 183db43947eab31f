package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Calendar describes which days a work center operates. Closures lists
// specific dates (YYYY-MM-DD) the center is down regardless of weekday.
type Calendar struct {
	Workdays [7]bool
	Closures map[string]bool
}

// DefaultCalendar returns a Monday through Friday operating calendar
func DefaultCalendar() Calendar {
	var days [7]bool
	for d := time.Monday; d <= time.Friday; d++ {
		days[d] = true
	}
	return Calendar{Workdays: days}
}

// ContinuousCalendar returns a seven-day operating calendar
func ContinuousCalendar() Calendar {
	var days [7]bool
	for i := range days {
		days[i] = true
	}
	return Calendar{Workdays: days}
}

// IsWorkday reports whether the center operates on the given date
func (c Calendar) IsWorkday(t time.Time) bool {
	if c.Closures[t.Format("2006-01-02")] {
		return false
	}
	return c.Workdays[t.Weekday()]
}

// WorkCenter represents a resource with finite daily processing capacity,
// shared across all jobs routed through it.
type WorkCenter struct {
	ID                   WorkCenterID
	Name                 string
	DailyCapacityMinutes float64
	Efficiency           float64
	MachineCostPerHour   decimal.Decimal
	LaborCostPerHour     decimal.Decimal
	Calendar             Calendar
}

// NewWorkCenter creates a validated WorkCenter. Efficiency scales nominal
// capacity; 1.0 is nominal and values up to 1.5 model over-performing lines.
func NewWorkCenter(
	id WorkCenterID,
	name string,
	dailyCapacityMinutes float64,
	efficiency float64,
	machineCostPerHour, laborCostPerHour decimal.Decimal,
	calendar Calendar,
) (*WorkCenter, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("work center id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("work center name cannot be empty")
	}
	if dailyCapacityMinutes < 0 {
		return nil, fmt.Errorf("daily capacity cannot be negative, got %g", dailyCapacityMinutes)
	}
	if efficiency <= 0 || efficiency > 1.5 {
		return nil, fmt.Errorf("efficiency must be in (0, 1.5], got %g", efficiency)
	}
	if machineCostPerHour.IsNegative() || laborCostPerHour.IsNegative() {
		return nil, fmt.Errorf("cost rates cannot be negative")
	}

	return &WorkCenter{
		ID:                   id,
		Name:                 name,
		DailyCapacityMinutes: dailyCapacityMinutes,
		Efficiency:           efficiency,
		MachineCostPerHour:   machineCostPerHour,
		LaborCostPerHour:     laborCostPerHour,
		Calendar:             calendar,
	}, nil
}

// EffectiveDailyMinutes returns the usable daily capacity after applying
// the efficiency factor.
func (w *WorkCenter) EffectiveDailyMinutes() float64 {
	return w.DailyCapacityMinutes * w.Efficiency
}
