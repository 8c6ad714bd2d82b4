package stockstatus

import (
	"context"

	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/stockstatus/dto"
)

// LowStockThreshold is a fixed default, deliberately independent of each
// product's own reorder point; reconciling the two is the caller's problem.
const LowStockThreshold = 10

// Recomputer is the slice of the aggregator the stock gateway needs after a
// mutation.
type Recomputer interface {
	Recompute(ctx context.Context, locationID, productID string) (*model.StockStatus, error)
}

type UseCase interface {
	Recomputer
	List(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error)
	Get(ctx context.Context, locationID, productID string) (*model.StockStatus, error)
}
