package repositories

import (
	"context"

	"github.com/shopfloor-io/planner/pkg/domain/entities"
)

// ProductRepository provides access to product master data
type ProductRepository interface {
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)
	ListProducts(ctx context.Context) ([]*entities.Product, error)
	SaveProduct(ctx context.Context, product *entities.Product) error
}
