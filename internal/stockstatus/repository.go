package stockstatus

import (
	"context"

	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/stockstatus/dto"
)

type Repository interface {
	// SumBuckets scans the ledger for one (location, product) key.
	// current covers the AVAILABLE and RESERVED buckets, reserved only RESERVED.
	SumBuckets(ctx context.Context, locationID, productID string) (current, reserved int64, err error)
	Upsert(ctx context.Context, status *model.StockStatus) error
	Get(ctx context.Context, locationID, productID string) (*model.StockStatus, error)
	FindByFilter(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error)
}
