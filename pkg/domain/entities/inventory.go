package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation records material held for a released production order
type Reservation struct {
	OrderID     OrderID
	ComponentID ProductID
	Quantity    decimal.Decimal
	ReservedAt  time.Time
}
