package dto

import (
	"time"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// MRPResult contains the complete output of one MRP run: the horizon
// window, the per-day bucket sequence, and the recommendation lists
// intended for persistence and approval workflows upstream.
type MRPResult struct {
	ProductID    entities.ProductID `json:"product_id"`
	HorizonStart time.Time          `json:"horizon_start"`
	HorizonDays  int                `json:"horizon_days"`

	// ProductionLeadDays is the routing lead time for the demanded
	// quantity; TotalLeadDays adds the longest component lead time on
	// top (purchasing and production serialized).
	ProductionLeadDays int `json:"production_lead_days"`
	TotalLeadDays      int `json:"total_lead_days"`

	Buckets []entities.MRPTimeBucket `json:"buckets"`

	PurchaseRecommendations   []entities.PurchaseRecommendation   `json:"purchase_recommendations"`
	ProductionRecommendations []entities.ProductionRecommendation `json:"production_recommendations"`
}
