package repositories

import (
	"context"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// WorkCenterRepository provides access to work center definitions
type WorkCenterRepository interface {
	GetWorkCenter(ctx context.Context, id entities.WorkCenterID) (*entities.WorkCenter, error)
	ListWorkCenters(ctx context.Context) ([]*entities.WorkCenter, error)
	SaveWorkCenter(ctx context.Context, wc *entities.WorkCenter) error
}
