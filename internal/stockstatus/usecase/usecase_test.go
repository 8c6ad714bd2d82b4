package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/stockstatus"
	"github.com/retailops/inventory-service/internal/stockstatus/dto"
)

type fakeStatusRepo struct {
	current  map[string]int64
	reserved map[string]int64
	rows     map[string]*model.StockStatus
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{
		current:  make(map[string]int64),
		reserved: make(map[string]int64),
		rows:     make(map[string]*model.StockStatus),
	}
}

func statusKey(locationID, productID string) string {
	return locationID + "|" + productID
}

func (f *fakeStatusRepo) seed(locationID, productID string, current, reserved int64) {
	f.current[statusKey(locationID, productID)] = current
	f.reserved[statusKey(locationID, productID)] = reserved
}

func (f *fakeStatusRepo) SumBuckets(ctx context.Context, locationID, productID string) (int64, int64, error) {
	k := statusKey(locationID, productID)
	return f.current[k], f.reserved[k], nil
}

func (f *fakeStatusRepo) Upsert(ctx context.Context, status *model.StockStatus) error {
	cp := *status
	f.rows[statusKey(status.LocationID, status.ProductID)] = &cp
	return nil
}

func (f *fakeStatusRepo) Get(ctx context.Context, locationID, productID string) (*model.StockStatus, error) {
	if row, ok := f.rows[statusKey(locationID, productID)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStatusRepo) FindByFilter(ctx context.Context, filters *dto.StatusFilters) ([]model.StockStatus, int, error) {
	var out []model.StockStatus
	for _, row := range f.rows {
		if filters.LocationID != "" && row.LocationID != filters.LocationID {
			continue
		}
		switch filters.StockType {
		case dto.StockTypeOutOfStock:
			if row.AvailableStock > 0 {
				continue
			}
		case dto.StockTypeLowStock:
			if row.AvailableStock <= 0 || row.AvailableStock > stockstatus.LowStockThreshold {
				continue
			}
		case dto.StockTypeAvailable:
			if row.AvailableStock <= 0 {
				continue
			}
		}
		out = append(out, *row)
	}
	return out, len(out), nil
}

func TestRecomputeDerivesAvailableStock(t *testing.T) {
	repo := newFakeStatusRepo()
	repo.seed("loc1", "p1", 30, 12)
	uc := NewStockStatusUseCase(repo, logger.NewNop())

	status, err := uc.Recompute(context.Background(), "loc1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), status.CurrentStock)
	assert.Equal(t, int64(12), status.ReservedStock)
	assert.Equal(t, int64(18), status.AvailableStock)
	assert.False(t, status.OutOfStock)

	stored, err := uc.Get(context.Background(), "loc1", "p1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(18), stored.AvailableStock)
}

func TestRecomputeFlagsOutOfStock(t *testing.T) {
	repo := newFakeStatusRepo()
	uc := NewStockStatusUseCase(repo, logger.NewNop())

	// No ledger rows at all.
	status, err := uc.Recompute(context.Background(), "loc1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.AvailableStock)
	assert.True(t, status.OutOfStock)

	// Everything reserved counts as out of stock too.
	repo.seed("loc1", "p2", 5, 5)
	status, err = uc.Recompute(context.Background(), "loc1", "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.AvailableStock)
	assert.True(t, status.OutOfStock)
}

func TestRecomputeReplacesPreviousRow(t *testing.T) {
	repo := newFakeStatusRepo()
	repo.seed("loc1", "p1", 10, 0)
	uc := NewStockStatusUseCase(repo, logger.NewNop())

	_, err := uc.Recompute(context.Background(), "loc1", "p1")
	require.NoError(t, err)

	repo.seed("loc1", "p1", 2, 1)
	status, err := uc.Recompute(context.Background(), "loc1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.AvailableStock)

	stored, err := uc.Get(context.Background(), "loc1", "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.AvailableStock)
}

func TestListByStockType(t *testing.T) {
	repo := newFakeStatusRepo()
	repo.seed("loc1", "empty", 3, 3)
	repo.seed("loc1", "low", 10, 0)
	repo.seed("loc1", "healthy", 40, 5)
	uc := NewStockStatusUseCase(repo, logger.NewNop())

	for _, p := range []string{"empty", "low", "healthy"} {
		_, err := uc.Recompute(context.Background(), "loc1", p)
		require.NoError(t, err)
	}

	rows, total, err := uc.List(context.Background(), &dto.StatusFilters{StockType: dto.StockTypeOutOfStock})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "empty", rows[0].ProductID)

	rows, total, err = uc.List(context.Background(), &dto.StatusFilters{StockType: dto.StockTypeLowStock})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "low", rows[0].ProductID)

	// The low stock boundary is inclusive at the threshold only.
	repo.seed("loc1", "edge", 11, 0)
	_, err = uc.Recompute(context.Background(), "loc1", "edge")
	require.NoError(t, err)

	_, total, err = uc.List(context.Background(), &dto.StatusFilters{StockType: dto.StockTypeLowStock})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = uc.List(context.Background(), &dto.StatusFilters{StockType: dto.StockTypeAvailable})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
