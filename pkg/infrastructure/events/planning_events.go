package events

import (
	"time"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

const (
	OrderPlannedEvent   = "order.planned"
	OrderReleasedEvent  = "order.released"
	OrderStartedEvent   = "order.started"
	OrderCompletedEvent = "order.completed"
	OrderCancelledEvent = "order.cancelled"

	MRPRunCompletedEvent       = "mrp.run.completed"
	BottleneckIdentifiedEvent  = "capacity.bottleneck.identified"
	ScheduleProducedEvent      = "schedule.produced"
	MaterialShortageFoundEvent = "material.shortage.found"
	MaterialReservedEvent      = "material.reserved"
)

type OrderPlanned struct {
	Order entities.ProductionOrder `json:"order"`
}

type OrderReleased struct {
	Order entities.ProductionOrder `json:"order"`
}

type OrderStarted struct {
	Order entities.ProductionOrder `json:"order"`
}

type OrderCompleted struct {
	Order entities.ProductionOrder `json:"order"`
	Yield string                   `json:"yield"`
}

type OrderCancelled struct {
	Order  entities.ProductionOrder `json:"order"`
	Reason string                   `json:"reason"`
}

type MRPRunCompleted struct {
	ProductID      entities.ProductID `json:"product_id"`
	HorizonDays    int                `json:"horizon_days"`
	PurchaseRecs   int                `json:"purchase_recommendations"`
	ProductionRecs int                `json:"production_recommendations"`
}

type BottleneckIdentified struct {
	WorkCenterID    entities.WorkCenterID `json:"work_center_id"`
	Date            time.Time             `json:"date"`
	OverloadMinutes float64               `json:"overload_minutes"`
}

type ScheduleProduced struct {
	Strategy      string  `json:"strategy"`
	Jobs          int     `json:"jobs"`
	MakespanHours float64 `json:"makespan_hours"`
}

type MaterialShortageFound struct {
	OrderID   entities.OrderID            `json:"order_id"`
	Shortages []entities.MaterialShortage `json:"shortages"`
}

type MaterialReserved struct {
	OrderID entities.OrderID `json:"order_id"`
	Lines   int              `json:"lines"`
}

func NewOrderPlannedEvent(order *entities.ProductionOrder) Event {
	return New(OrderPlannedEvent, string(order.ID), OrderPlanned{Order: *order})
}

func NewOrderReleasedEvent(order *entities.ProductionOrder) Event {
	return New(OrderReleasedEvent, string(order.ID), OrderReleased{Order: *order})
}

func NewOrderStartedEvent(order *entities.ProductionOrder) Event {
	return New(OrderStartedEvent, string(order.ID), OrderStarted{Order: *order})
}

func NewOrderCompletedEvent(order *entities.ProductionOrder) Event {
	return New(OrderCompletedEvent, string(order.ID), OrderCompleted{
		Order: *order,
		Yield: order.Yield().String(),
	})
}

func NewOrderCancelledEvent(order *entities.ProductionOrder, reason string) Event {
	return New(OrderCancelledEvent, string(order.ID), OrderCancelled{
		Order:  *order,
		Reason: reason,
	})
}

func NewMRPRunCompletedEvent(productID entities.ProductID, horizonDays, purchaseRecs, productionRecs int) Event {
	return New(MRPRunCompletedEvent, string(productID), MRPRunCompleted{
		ProductID:      productID,
		HorizonDays:    horizonDays,
		PurchaseRecs:   purchaseRecs,
		ProductionRecs: productionRecs,
	})
}

func NewBottleneckIdentifiedEvent(wcID entities.WorkCenterID, date time.Time, overloadMinutes float64) Event {
	return New(BottleneckIdentifiedEvent, string(wcID), BottleneckIdentified{
		WorkCenterID:    wcID,
		Date:            date,
		OverloadMinutes: overloadMinutes,
	})
}

func NewScheduleProducedEvent(strategy string, jobs int, makespanHours float64) Event {
	return New(ScheduleProducedEvent, "scheduler", ScheduleProduced{
		Strategy:      strategy,
		Jobs:          jobs,
		MakespanHours: makespanHours,
	})
}

func NewMaterialShortageFoundEvent(orderID entities.OrderID, shortages []entities.MaterialShortage) Event {
	return New(MaterialShortageFoundEvent, string(orderID), MaterialShortageFound{
		OrderID:   orderID,
		Shortages: shortages,
	})
}

func NewMaterialReservedEvent(orderID entities.OrderID, lines int) Event {
	return New(MaterialReservedEvent, string(orderID), MaterialReserved{
		OrderID: orderID,
		Lines:   lines,
	})
}
