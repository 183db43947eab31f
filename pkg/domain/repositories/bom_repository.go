package repositories

import (
	"context"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// BOMRepository provides read access to bill-of-materials data. The
// planning core only ever reads collaborator data; maintenance of BOMs
// belongs to the surrounding system.
type BOMRepository interface {
	// GetBOM returns the current bill of materials for a product, or an
	// error wrapping planning.ErrNotFound.
	GetBOM(ctx context.Context, productID entities.ProductID) (*entities.BillOfMaterials, error)

	SaveBOM(ctx context.Context, bom *entities.BillOfMaterials) error
}
