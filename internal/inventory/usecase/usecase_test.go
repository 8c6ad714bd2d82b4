package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/inventory-service/internal/apperrors"
	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/logger"
)

type fakeLedgerRepo struct {
	mu        sync.Mutex
	entries   map[string]*model.InventoryItem
	movements []model.InventoryMovement
	applyErr  error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make(map[string]*model.InventoryItem)}
}

func ledgerKey(productID, locationID string, status model.StockBucket) string {
	return strings.Join([]string{productID, locationID, string(status)}, "|")
}

func (f *fakeLedgerRepo) GetEntry(ctx context.Context, productID, locationID string, status model.StockBucket) (*model.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[ledgerKey(productID, locationID, status)]
	if !ok {
		return nil, nil
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeLedgerRepo) FindAll(ctx context.Context, filters *dto.LedgerFilters) ([]model.InventoryItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []model.InventoryItem
	for _, e := range f.entries {
		if filters.ProductID != "" && e.ProductID != filters.ProductID {
			continue
		}
		if filters.LocationID != "" && e.LocationID != filters.LocationID {
			continue
		}
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		items = append(items, *e)
	}
	return items, len(items), nil
}

// ApplyDeltas mimics the transactional repository: the whole batch is
// validated against a staged view and either fully applied or fully rejected.
func (f *fakeLedgerRepo) ApplyDeltas(ctx context.Context, changes []dto.StockChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.applyErr != nil {
		return f.applyErr
	}

	staged := make(map[string]int64)
	for _, c := range changes {
		key := ledgerKey(c.ProductID, c.LocationID, c.Status)
		if _, ok := staged[key]; !ok {
			if e, exists := f.entries[key]; exists {
				staged[key] = e.Quantity
			}
		}
		next := staged[key] + c.Delta
		if next < 0 {
			return apperrors.InsufficientStock(c.ProductID, c.LocationID, string(c.Status), -c.Delta, staged[key])
		}
		staged[key] = next
	}

	for _, c := range changes {
		key := ledgerKey(c.ProductID, c.LocationID, c.Status)
		entry, ok := f.entries[key]
		if !ok {
			entry = &model.InventoryItem{
				ID:              key,
				ProductID:       c.ProductID,
				LocationID:      c.LocationID,
				Status:          c.Status,
				UnitCostPrice:   c.UnitCostPrice,
				UnitRetailPrice: c.UnitRetailPrice,
			}
			f.entries[key] = entry
		}
		before := entry.Quantity
		entry.Quantity += c.Delta
		f.movements = append(f.movements, model.InventoryMovement{
			ProductID:      c.ProductID,
			LocationID:     c.LocationID,
			Status:         c.Status,
			MovementType:   c.MovementType,
			QuantityChange: c.Delta,
			QuantityBefore: before,
			QuantityAfter:  entry.Quantity,
		})
	}
	return nil
}

func (f *fakeLedgerRepo) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.InventoryMovement(nil), f.movements...), len(f.movements), nil
}

func (f *fakeLedgerRepo) quantity(productID, locationID string, status model.StockBucket) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[ledgerKey(productID, locationID, status)]; ok {
		return e.Quantity
	}
	return 0
}

func (f *fakeLedgerRepo) seed(productID, locationID string, status model.StockBucket, qty int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ledgerKey(productID, locationID, status)
	f.entries[key] = &model.InventoryItem{
		ID:         key,
		ProductID:  productID,
		LocationID: locationID,
		Status:     status,
		Quantity:   qty,
	}
}

type fakeCatalogRepo struct {
	products  map[string]*model.Product
	locations map[string]*model.Location
}

func newFakeCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products:  make(map[string]*model.Product),
		locations: make(map[string]*model.Location),
	}
}

func (f *fakeCatalogRepo) addProduct(id string, cost, retail float64) {
	f.products[id] = &model.Product{
		BaseModel:   model.BaseModel{ID: id},
		SKU:         "SKU-" + id,
		CostPrice:   cost,
		RetailPrice: retail,
		IsActive:    true,
	}
}

func (f *fakeCatalogRepo) addLocation(id string, typ model.LocationType) {
	f.locations[id] = &model.Location{
		BaseModel: model.BaseModel{ID: id},
		Code:      "LOC-" + id,
		Type:      typ,
		IsActive:  true,
	}
}

func (f *fakeCatalogRepo) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProductNotFound
}

func (f *fakeCatalogRepo) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, apperrors.ErrProductNotFound
}

func (f *fakeCatalogRepo) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	if l, ok := f.locations[id]; ok {
		return l, nil
	}
	return nil, apperrors.ErrLocationNotFound
}

func (f *fakeCatalogRepo) GetLocationByCode(ctx context.Context, code string) (*model.Location, error) {
	for _, l := range f.locations {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, apperrors.ErrLocationNotFound
}

type fakeRecomputer struct {
	mu    sync.Mutex
	calls [][2]string
}

func (f *fakeRecomputer) Recompute(ctx context.Context, locationID, productID string) (*model.StockStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{locationID, productID})
	return &model.StockStatus{LocationID: locationID, ProductID: productID}, nil
}

type captureRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (r *captureRecorder) Record(ctx context.Context, entityType, entityID, action, userID string, details any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func newTestGateway() (*fakeLedgerRepo, *fakeCatalogRepo, *fakeRecomputer, *captureRecorder, *stockUseCase) {
	repo := newFakeLedgerRepo()
	cat := newFakeCatalog()
	rec := &fakeRecomputer{}
	rcd := &captureRecorder{}
	uc := NewStockUseCase(repo, cat, rec, nil, rcd, logger.NewNop()).(*stockUseCase)
	return repo, cat, rec, rcd, uc
}

func TestAdjustAddCreatesEntry(t *testing.T) {
	repo, cat, rec, rcd, uc := newTestGateway()
	cat.addProduct("p1", 2.5, 5.0)
	cat.addLocation("wh1", model.LocationWarehouse)

	item, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "wh1",
		Type:       dto.AdjustmentAdd,
		Quantity:   10,
		ReasonCode: dto.ReasonRecount,
		UserID:     "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(10), item.Quantity)
	assert.Equal(t, int64(10), repo.quantity("p1", "wh1", model.BucketAvailable))
	assert.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"adjust"}, rcd.actions)
}

func TestAdjustSubtractInsufficientLeavesLedgerUntouched(t *testing.T) {
	repo, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("wh1", model.LocationWarehouse)
	repo.seed("p1", "wh1", model.BucketAvailable, 5)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "wh1",
		Type:       dto.AdjustmentSubtract,
		Quantity:   999,
		ReasonCode: dto.ReasonAdjustment,
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, int64(5), repo.quantity("p1", "wh1", model.BucketAvailable))
}

func TestAdjustSubtractDamageRoutesToDamagedBucket(t *testing.T) {
	repo, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("wh1", model.LocationWarehouse)
	repo.seed("p1", "wh1", model.BucketAvailable, 8)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "wh1",
		Type:       dto.AdjustmentSubtract,
		Quantity:   3,
		ReasonCode: dto.ReasonDamage,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), repo.quantity("p1", "wh1", model.BucketAvailable))
	assert.Equal(t, int64(3), repo.quantity("p1", "wh1", model.BucketDamaged))
}

func TestAdjustSubtractExpiryRoutesToExpiredBucket(t *testing.T) {
	repo, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("st1", model.LocationStore)
	repo.seed("p1", "st1", model.BucketAvailable, 4)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "st1",
		Type:       dto.AdjustmentSubtract,
		Quantity:   4,
		ReasonCode: dto.ReasonExpiry,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), repo.quantity("p1", "st1", model.BucketAvailable))
	assert.Equal(t, int64(4), repo.quantity("p1", "st1", model.BucketExpired))
}

func TestAdjustSetComputesImpliedDelta(t *testing.T) {
	repo, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("wh1", model.LocationWarehouse)
	repo.seed("p1", "wh1", model.BucketAvailable, 12)

	item, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "wh1",
		Type:       dto.AdjustmentSet,
		Quantity:   7,
		ReasonCode: dto.ReasonRecount,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.Quantity)

	movements, _, err := repo.ListMovements(context.Background(), &dto.MovementFilters{})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, int64(-5), movements[0].QuantityChange)
}

func TestAdjustRejectsUnknownType(t *testing.T) {
	_, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("wh1", model.LocationWarehouse)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "wh1",
		Type:       "MULTIPLY",
		Quantity:   2,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAdjustmentType)
}

func TestAdjustRejectsUnknownProductAndLocation(t *testing.T) {
	_, cat, _, _, uc := newTestGateway()
	cat.addLocation("wh1", model.LocationWarehouse)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "ghost",
		LocationID: "wh1",
		Type:       dto.AdjustmentAdd,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

	cat.addProduct("p1", 1, 2)
	_, err = uc.Adjust(context.Background(), &dto.AdjustStockInput{
		ProductID:  "p1",
		LocationID: "nowhere",
		Type:       dto.AdjustmentAdd,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)
}

func TestReserveForSaleDecrementsAvailable(t *testing.T) {
	repo, cat, rec, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("st1", model.LocationStore)
	repo.seed("p1", "st1", model.BucketAvailable, 5)

	item, err := uc.ReserveForSale(context.Background(), &dto.ReserveForSaleInput{
		ProductID:   "p1",
		LocationID:  "st1",
		Quantity:    2,
		ReferenceID: "order-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.Quantity)
	assert.Len(t, rec.calls, 1)
}

func TestConcurrentReservationsNeverGoNegative(t *testing.T) {
	repo, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addLocation("st1", model.LocationStore)
	repo.seed("p1", "st1", model.BucketAvailable, 5)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.ReserveForSale(context.Background(), &dto.ReserveForSaleInput{
				ProductID:  "p1",
				LocationID: "st1",
				Quantity:   5,
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one reservation must lose")
	assert.Equal(t, int64(0), repo.quantity("p1", "st1", model.BucketAvailable))
}

func TestMoveStockConservesQuantity(t *testing.T) {
	repo, cat, rec, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	repo.seed("p1", "wh1", model.BucketAvailable, 10)

	err := uc.MoveStock(context.Background(), &dto.MoveStockInput{
		Moves: []dto.StockMove{{
			ProductID:      "p1",
			FromLocationID: "wh1",
			FromBucket:     model.BucketAvailable,
			ToLocationID:   "st1",
			ToBucket:       model.BucketAvailable,
			Quantity:       6,
		}},
		ReferenceType: "transfer",
		ReferenceID:   "TRF-000001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), repo.quantity("p1", "wh1", model.BucketAvailable))
	assert.Equal(t, int64(6), repo.quantity("p1", "st1", model.BucketAvailable))
	// Both sides of the move trigger a recompute.
	assert.Len(t, rec.calls, 2)
}

func TestMoveStockBatchIsAllOrNothing(t *testing.T) {
	repo, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)
	cat.addProduct("p2", 1, 2)
	repo.seed("p1", "wh1", model.BucketAvailable, 10)
	repo.seed("p2", "wh1", model.BucketAvailable, 1)

	err := uc.MoveStock(context.Background(), &dto.MoveStockInput{
		Moves: []dto.StockMove{
			{ProductID: "p1", FromLocationID: "wh1", FromBucket: model.BucketAvailable, ToLocationID: "st1", ToBucket: model.BucketAvailable, Quantity: 5},
			{ProductID: "p2", FromLocationID: "wh1", FromBucket: model.BucketAvailable, ToLocationID: "st1", ToBucket: model.BucketAvailable, Quantity: 3},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, int64(10), repo.quantity("p1", "wh1", model.BucketAvailable))
	assert.Equal(t, int64(1), repo.quantity("p2", "wh1", model.BucketAvailable))
	assert.Equal(t, int64(0), repo.quantity("p1", "st1", model.BucketAvailable))
}

func TestMoveStockRejectsNonPositiveQuantity(t *testing.T) {
	_, cat, _, _, uc := newTestGateway()
	cat.addProduct("p1", 1, 2)

	err := uc.MoveStock(context.Background(), &dto.MoveStockInput{
		Moves: []dto.StockMove{{
			ProductID:      "p1",
			FromLocationID: "wh1",
			FromBucket:     model.BucketAvailable,
			ToLocationID:   "st1",
			ToBucket:       model.BucketAvailable,
			Quantity:       0,
		}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
}
