package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Demand is one dated requirement for a product, fed to the MRP engine
type Demand struct {
	Quantity decimal.Decimal
	Date     time.Time
	Source   string
}

// MRPTimeBucket holds one planning-horizon day of time-phased netting.
//
// Invariants maintained by the engine:
//
//	ProjectedOnHand[n] = ProjectedOnHand[n-1] + ScheduledReceipts[n] - GrossRequirement[n]
//	NetRequirement[n]  = max(0, -ProjectedOnHand[n])
type MRPTimeBucket struct {
	Date                time.Time
	GrossRequirement    decimal.Decimal
	ScheduledReceipts   decimal.Decimal
	ProjectedOnHand     decimal.Decimal
	NetRequirement      decimal.Decimal
	PlannedOrderReceipt decimal.Decimal
	PlannedOrderRelease decimal.Decimal
}

// PurchaseRecommendation asks purchasing to release an order for a
// non-phantom component so material arrives before production starts.
type PurchaseRecommendation struct {
	ComponentID   ProductID
	Quantity      decimal.Decimal
	Unit          string
	ReleaseDate   time.Time
	DueDate       time.Time
	EstimatedCost decimal.Decimal
}

// ProductionRecommendation asks planning to release a production order
// timed to finish by the demand date.
type ProductionRecommendation struct {
	ProductID ProductID
	Quantity  decimal.Decimal
	StartDate time.Time
	DueDate   time.Time
}
