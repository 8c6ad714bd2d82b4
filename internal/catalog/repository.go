package catalog

import (
	"context"

	"github.com/retailops/inventory-service/internal/model"
)

// Repository is the read-only view of catalog reference data. This service
// never mutates products or locations.
type Repository interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	GetLocationByCode(ctx context.Context, code string) (*model.Location, error)
}
