package entities

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// WorkCenterID represents a unique work center identifier
type WorkCenterID string

// Operation represents a single step in a routing. Setup, run, queue and
// move times are in minutes; run time is per unit produced.
type Operation struct {
	Sequence          int
	Name              string
	WorkCenterID      WorkCenterID
	SetupMinutes      float64
	RunMinutesPerUnit float64
	QueueMinutes      float64
	MoveMinutes       float64
	LaborCostPerHour  decimal.Decimal
	OverheadPerHour   decimal.Decimal
}

// NewOperation creates a validated Operation
func NewOperation(
	sequence int,
	name string,
	workCenterID WorkCenterID,
	setupMinutes, runMinutesPerUnit, queueMinutes, moveMinutes float64,
	laborCostPerHour, overheadPerHour decimal.Decimal,
) (*Operation, error) {
	if sequence <= 0 {
		return nil, fmt.Errorf("sequence must be positive, got %d", sequence)
	}
	if name == "" {
		return nil, fmt.Errorf("operation name cannot be empty")
	}
	if string(workCenterID) == "" {
		return nil, fmt.Errorf("work center id cannot be empty")
	}
	if setupMinutes < 0 || runMinutesPerUnit < 0 || queueMinutes < 0 || moveMinutes < 0 {
		return nil, fmt.Errorf("operation times cannot be negative")
	}
	if laborCostPerHour.IsNegative() || overheadPerHour.IsNegative() {
		return nil, fmt.Errorf("operation cost rates cannot be negative")
	}

	return &Operation{
		Sequence:          sequence,
		Name:              name,
		WorkCenterID:      workCenterID,
		SetupMinutes:      setupMinutes,
		RunMinutesPerUnit: runMinutesPerUnit,
		QueueMinutes:      queueMinutes,
		MoveMinutes:       moveMinutes,
		LaborCostPerHour:  laborCostPerHour,
		OverheadPerHour:   overheadPerHour,
	}, nil
}

// CapacityMinutes returns the work-center load this operation places for
// the given quantity: setup plus run time. Queue and move time elapse
// without occupying the machine.
func (o Operation) CapacityMinutes(quantity decimal.Decimal) float64 {
	qty, _ := quantity.Float64()
	return o.SetupMinutes + o.RunMinutesPerUnit*qty
}

// ElapsedMinutes returns the total elapsed time for this operation at the
// given quantity, including queue and move time.
func (o Operation) ElapsedMinutes(quantity decimal.Decimal) float64 {
	return o.CapacityMinutes(quantity) + o.QueueMinutes + o.MoveMinutes
}

// Routing represents the ordered operation sequence that manufactures a
// product. Operations are process-flow ordered: an operation's predecessor
// must complete before it starts.
type Routing struct {
	ProductID  ProductID
	Version    int
	Operations []Operation
}

// NewRouting creates a validated Routing. Sequence numbers must be
// strictly increasing.
func NewRouting(productID ProductID, version int, operations []Operation) (*Routing, error) {
	if string(productID) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if version <= 0 {
		return nil, fmt.Errorf("version must be positive, got %d", version)
	}
	if len(operations) == 0 {
		return nil, fmt.Errorf("routing must have at least one operation")
	}
	prev := 0
	for _, op := range operations {
		if op.Sequence <= prev {
			return nil, fmt.Errorf(
				"operation sequences must be strictly increasing: %d follows %d",
				op.Sequence, prev,
			)
		}
		prev = op.Sequence
	}

	return &Routing{
		ProductID:  productID,
		Version:    version,
		Operations: operations,
	}, nil
}

// TotalMinutes returns the elapsed routing time for the given quantity
func (r *Routing) TotalMinutes(quantity decimal.Decimal) float64 {
	total := 0.0
	for _, op := range r.Operations {
		total += op.ElapsedMinutes(quantity)
	}
	return total
}

// LeadTimeDays converts the routing's elapsed time for a quantity into
// whole production days, rounding up against the given workday length.
func (r *Routing) LeadTimeDays(quantity decimal.Decimal, workdayMinutes float64) int {
	if workdayMinutes <= 0 {
		return 0
	}
	total := r.TotalMinutes(quantity)
	if total == 0 {
		return 0
	}
	return int(math.Ceil(total / workdayMinutes))
}
