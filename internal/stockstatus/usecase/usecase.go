package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/stockstatus"
	"github.com/retailops/inventory-service/internal/stockstatus/dto"
	"go.uber.org/zap"
)

type stockStatusUseCase struct {
	repo   stockstatus.Repository
	logger logger.ZapLogger
}

func NewStockStatusUseCase(repo stockstatus.Repository, log logger.ZapLogger) stockstatus.UseCase {
	return &stockStatusUseCase{
		repo:   repo,
		logger: log,
	}
}

// Recompute rebuilds the projection row for one (location, product) key from
// a fresh ledger scan. Called synchronously after every affecting mutation so
// sellability checks never see a stale row.
func (uc *stockStatusUseCase) Recompute(ctx context.Context, locationID, productID string) (*model.StockStatus, error) {
	current, reserved, err := uc.repo.SumBuckets(ctx, locationID, productID)
	if err != nil {
		return nil, err
	}

	available := current - reserved

	status := &model.StockStatus{
		ID:             uuid.New().String(),
		LocationID:     locationID,
		ProductID:      productID,
		CurrentStock:   current,
		ReservedStock:  reserved,
		AvailableStock: available,
		OutOfStock:     available <= 0,
		LastMovementAt: time.Now().UTC(),
	}

	if err := uc.repo.Upsert(ctx, status); err != nil {
		return nil, err
	}

	uc.logger.Debug("stock status recomputed",
		zap.String("location_id", locationID),
		zap.String("product_id", productID),
		zap.Int64("available", available),
	)

	return status, nil
}

func (uc *stockStatusUseCase) List(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error) {
	return uc.repo.FindByFilter(ctx, filters)
}

func (uc *stockStatusUseCase) Get(ctx context.Context, locationID, productID string) (*model.StockStatus, error) {
	return uc.repo.Get(ctx, locationID, productID)
}
