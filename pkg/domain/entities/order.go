package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderID represents a unique production order identifier
type OrderID string

// OrderStatus represents the lifecycle state of a production order
type OrderStatus int

const (
	OrderPlanned OrderStatus = iota
	OrderReleased
	OrderInProgress
	OrderCompleted
	OrderCancelled
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case OrderPlanned:
		return "Planned"
	case OrderReleased:
		return "Released"
	case OrderInProgress:
		return "InProgress"
	case OrderCompleted:
		return "Completed"
	case OrderCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// OrderPriority represents the dispatch priority tier of an order
type OrderPriority int

const (
	PriorityLow OrderPriority = iota
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

// String method for OrderPriority enum
func (p OrderPriority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	default:
		return "Unknown"
	}
}

// MaterialRequirement is one line of an order's material snapshot,
// derived from BOM x quantity at creation time.
type MaterialRequirement struct {
	ComponentID ProductID
	Quantity    decimal.Decimal
	Unit        string
	UnitCost    decimal.Decimal
	NeedDate    time.Time
}

// CapacityRequirement is one line of an order's capacity snapshot,
// derived from Routing x quantity at creation time.
type CapacityRequirement struct {
	WorkCenterID    WorkCenterID
	OperationName   string
	Sequence        int
	RequiredMinutes float64
	Start           time.Time
	End             time.Time
}

// MaterialShortage reports an unfillable material requirement found
// during an availability check.
type MaterialShortage struct {
	ComponentID ProductID
	Required    decimal.Decimal
	Available   decimal.Decimal
}

// ProductionOrder represents an order to manufacture a quantity of a
// product. Material and capacity requirements are captured once at
// creation as value copies; later BOM or routing edits never alter an
// existing order.
type ProductionOrder struct {
	ID           OrderID
	ProductID    ProductID
	Quantity     decimal.Decimal
	Priority     OrderPriority
	Status       OrderStatus
	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  time.Time
	ActualEnd    time.Time

	Materials []MaterialRequirement
	Capacity  []CapacityRequirement

	ProducedQuantity decimal.Decimal
	ScrapQuantity    decimal.Decimal
	ActualCost       decimal.Decimal
}

// NewProductionOrder creates a validated ProductionOrder in Planned state
func NewProductionOrder(
	id OrderID,
	productID ProductID,
	quantity decimal.Decimal,
	priority OrderPriority,
	plannedStart, plannedEnd time.Time,
	materials []MaterialRequirement,
	capacity []CapacityRequirement,
) (*ProductionOrder, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if string(productID) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if quantity.Sign() <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if plannedStart.After(plannedEnd) {
		return nil, fmt.Errorf(
			"planned start %v cannot be after planned end %v",
			plannedStart, plannedEnd,
		)
	}

	return &ProductionOrder{
		ID:           id,
		ProductID:    productID,
		Quantity:     quantity,
		Priority:     priority,
		Status:       OrderPlanned,
		PlannedStart: plannedStart,
		PlannedEnd:   plannedEnd,
		Materials:    materials,
		Capacity:     capacity,
	}, nil
}

// Release transitions the order from Planned to Released. The caller is
// responsible for having confirmed and reserved material availability.
func (o *ProductionOrder) Release() error {
	if o.Status != OrderPlanned {
		return fmt.Errorf("cannot release order %s in status %s", o.ID, o.Status)
	}
	o.Status = OrderReleased
	return nil
}

// Start transitions the order from Released to InProgress
func (o *ProductionOrder) Start(at time.Time) error {
	if o.Status != OrderReleased {
		return fmt.Errorf("cannot start order %s in status %s", o.ID, o.Status)
	}
	o.Status = OrderInProgress
	o.ActualStart = at
	return nil
}

// Complete transitions the order from InProgress to Completed, recording
// produced and scrap quantities and actual cost.
func (o *ProductionOrder) Complete(at time.Time, produced, scrap, actualCost decimal.Decimal) error {
	if o.Status != OrderInProgress {
		return fmt.Errorf("cannot complete order %s in status %s", o.ID, o.Status)
	}
	if produced.IsNegative() || scrap.IsNegative() {
		return fmt.Errorf("produced and scrap quantities cannot be negative")
	}
	o.Status = OrderCompleted
	o.ActualEnd = at
	o.ProducedQuantity = produced
	o.ScrapQuantity = scrap
	o.ActualCost = actualCost
	return nil
}

// Cancel terminates the order unless it has already completed
func (o *ProductionOrder) Cancel() error {
	if o.Status == OrderCompleted {
		return fmt.Errorf("cannot cancel completed order %s", o.ID)
	}
	o.Status = OrderCancelled
	return nil
}

// Yield returns produced / (produced + scrap), or zero before completion
func (o *ProductionOrder) Yield() decimal.Decimal {
	total := o.ProducedQuantity.Add(o.ScrapQuantity)
	if total.Sign() <= 0 {
		return decimal.Zero
	}
	return o.ProducedQuantity.Div(total)
}

// IsOpen reports whether the order still contributes planned load
func (o *ProductionOrder) IsOpen() bool {
	switch o.Status {
	case OrderPlanned, OrderReleased, OrderInProgress:
		return true
	default:
		return false
	}
}
