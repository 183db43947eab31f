package entities

import "time"

// UtilizationStatus classifies one day's load against capacity
type UtilizationStatus int

const (
	Underutilized UtilizationStatus = iota
	Normal
	NearCapacity
	Overloaded
)

// String method for UtilizationStatus enum
func (s UtilizationStatus) String() string {
	switch s {
	case Underutilized:
		return "underutilized"
	case Normal:
		return "normal"
	case NearCapacity:
		return "near_capacity"
	case Overloaded:
		return "overloaded"
	default:
		return "unknown"
	}
}

// ClassifyUtilization buckets a utilization percentage:
// below 60 underutilized, 60 to 85 normal, above 85 up to 100
// near capacity, above 100 overloaded.
func ClassifyUtilization(pct float64) UtilizationStatus {
	switch {
	case pct < 60:
		return Underutilized
	case pct <= 85:
		return Normal
	case pct <= 100:
		return NearCapacity
	default:
		return Overloaded
	}
}

// DailyCapacity reports one day of a work center's load picture
type DailyCapacity struct {
	Date            time.Time
	Operating       bool
	CapacityMinutes float64
	LoadMinutes     float64
	Utilization     float64
	Status          UtilizationStatus
	OverloadMinutes float64
}

// Bottleneck flags an overloaded day with its overload magnitude
type Bottleneck struct {
	Date            time.Time
	Utilization     float64
	OverloadMinutes float64
}
