package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/inventory-service/internal/apperrors"
	"github.com/retailops/inventory-service/internal/audit"
	"github.com/retailops/inventory-service/internal/catalog"
	"github.com/retailops/inventory-service/internal/inventory"
	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/cache"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/stockstatus"
	"go.uber.org/zap"
)

const (
	lockTTL        = 5 * time.Second
	lockRetries    = 3
	lockRetryDelay = 100 * time.Millisecond
)

type stockUseCase struct {
	repo     inventory.Repository
	catalog  catalog.Repository
	status   stockstatus.Recomputer
	cache    *cache.RedisClient
	recorder audit.Recorder
	logger   logger.ZapLogger
}

func NewStockUseCase(
	repo inventory.Repository,
	cat catalog.Repository,
	status stockstatus.Recomputer,
	cacheClient *cache.RedisClient,
	recorder audit.Recorder,
	log logger.ZapLogger,
) inventory.UseCase {
	return &stockUseCase{
		repo:     repo,
		catalog:  cat,
		status:   status,
		cache:    cacheClient,
		recorder: recorder,
		logger:   log,
	}
}

func (uc *stockUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidAdjustmentType, input.Type)
	}
	if input.Quantity < 0 || (input.Type != dto.AdjustmentSet && input.Quantity == 0) {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidQuantity, input.Quantity)
	}

	product, err := uc.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.catalog.GetLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	unlock, err := uc.lockKeys(ctx, stockKey(input.LocationID, input.ProductID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}
	refType := "manual_adjustment"

	base := dto.StockChange{
		ProductID:       input.ProductID,
		LocationID:      input.LocationID,
		Status:          model.BucketAvailable,
		UnitCostPrice:   product.CostPrice,
		UnitRetailPrice: product.RetailPrice,
		MovementType:    "adjustment",
		ReferenceType:   &refType,
		Notes:           input.ReasonCode,
		CreatedBy:       createdBy,
	}

	var changes []dto.StockChange
	switch input.Type {
	case dto.AdjustmentAdd:
		add := base
		add.Delta = input.Quantity
		changes = []dto.StockChange{add}
	case dto.AdjustmentSubtract:
		sub := base
		sub.Delta = -input.Quantity
		changes = []dto.StockChange{sub}
		// Damaged or expired stock is moved into its bucket, not discarded.
		if bucket, ok := disposalBucket(input.ReasonCode); ok {
			side := base
			side.Status = bucket
			side.Delta = input.Quantity
			changes = append(changes, side)
		}
	case dto.AdjustmentSet:
		entry, err := uc.repo.GetEntry(ctx, input.ProductID, input.LocationID, model.BucketAvailable)
		if err != nil {
			return nil, err
		}
		var current int64
		if entry != nil {
			current = entry.Quantity
		}
		set := base
		set.Delta = input.Quantity - current
		if set.Delta == 0 {
			return entry, nil
		}
		changes = []dto.StockChange{set}
	}

	if err := uc.repo.ApplyDeltas(ctx, changes); err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, changes, "inventory", input.ProductID, "adjust", input.UserID, input)

	return uc.repo.GetEntry(ctx, input.ProductID, input.LocationID, model.BucketAvailable)
}

// ReserveForSale is a final decrement: sales confirm synchronously with
// payment, so there is no two-phase hold to release later.
func (uc *stockUseCase) ReserveForSale(ctx context.Context, input *dto.ReserveForSaleInput) (*model.InventoryItem, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidQuantity, input.Quantity)
	}

	if _, err := uc.catalog.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.GetLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	unlock, err := uc.lockKeys(ctx, stockKey(input.LocationID, input.ProductID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}
	refType := "sale"
	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}

	changes := []dto.StockChange{{
		ProductID:     input.ProductID,
		LocationID:    input.LocationID,
		Status:        model.BucketAvailable,
		Delta:         -input.Quantity,
		MovementType:  "sale",
		ReferenceType: &refType,
		ReferenceID:   refID,
		CreatedBy:     createdBy,
	}}

	if err := uc.repo.ApplyDeltas(ctx, changes); err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, changes, "inventory", input.ProductID, "reserve_for_sale", input.UserID, input)

	return uc.repo.GetEntry(ctx, input.ProductID, input.LocationID, model.BucketAvailable)
}

// MoveStock executes a batch of two-sided moves as one atomic ledger
// transaction. Transfer ship and receive are expressed through it.
func (uc *stockUseCase) MoveStock(ctx context.Context, input *dto.MoveStockInput) error {
	if len(input.Moves) == 0 {
		return fmt.Errorf("%w: no moves", apperrors.ErrInvalidQuantity)
	}

	keys := map[string]struct{}{}
	for _, m := range input.Moves {
		if m.Quantity <= 0 {
			return fmt.Errorf("%w: %d for product %s", apperrors.ErrInvalidQuantity, m.Quantity, m.ProductID)
		}
		if !m.FromBucket.Valid() || !m.ToBucket.Valid() {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidCondition, m.FromBucket, m.ToBucket)
		}
		keys[stockKey(m.FromLocationID, m.ProductID)] = struct{}{}
		keys[stockKey(m.ToLocationID, m.ProductID)] = struct{}{}
	}

	products := map[string]*model.Product{}
	for _, m := range input.Moves {
		if _, ok := products[m.ProductID]; ok {
			continue
		}
		p, err := uc.catalog.GetProduct(ctx, m.ProductID)
		if err != nil {
			return err
		}
		products[m.ProductID] = p
	}

	unlock, err := uc.lockKeys(ctx, sortedKeys(keys)...)
	if err != nil {
		return err
	}
	defer unlock()

	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}
	var refType, refID *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}

	changes := make([]dto.StockChange, 0, len(input.Moves)*2)
	for _, m := range input.Moves {
		p := products[m.ProductID]
		out := dto.StockChange{
			ProductID:       m.ProductID,
			LocationID:      m.FromLocationID,
			Status:          m.FromBucket,
			Delta:           -m.Quantity,
			UnitCostPrice:   p.CostPrice,
			UnitRetailPrice: p.RetailPrice,
			MovementType:    "transfer_out",
			ReferenceType:   refType,
			ReferenceID:     refID,
			Notes:           input.Notes,
			CreatedBy:       createdBy,
		}
		in := out
		in.LocationID = m.ToLocationID
		in.Status = m.ToBucket
		in.Delta = m.Quantity
		in.MovementType = "transfer_in"
		changes = append(changes, out, in)
	}

	if err := uc.repo.ApplyDeltas(ctx, changes); err != nil {
		return err
	}

	entityID := input.ReferenceID
	if entityID == "" {
		entityID = uuid.New().String()
	}
	uc.afterMutation(ctx, changes, "stock_move", entityID, "move_stock", input.UserID, input)

	return nil
}

func (uc *stockUseCase) Query(ctx context.Context, filters *dto.LedgerFilters) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// afterMutation runs the post-commit hooks: a synchronous stock-status
// recompute per touched (location, product) key and one audit event. Neither
// may fail the already-committed mutation.
func (uc *stockUseCase) afterMutation(ctx context.Context, changes []dto.StockChange, entityType, entityID, action, userID string, details any) {
	seen := map[string]struct{}{}
	for _, c := range changes {
		key := stockKey(c.LocationID, c.ProductID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, err := uc.status.Recompute(ctx, c.LocationID, c.ProductID); err != nil {
			uc.logger.Error("failed to recompute stock status",
				zap.Error(err),
				zap.String("location_id", c.LocationID),
				zap.String("product_id", c.ProductID),
			)
		}
	}

	uc.recorder.Record(ctx, entityType, entityID, action, userID, details)
}

// lockKeys takes the distributed lock for every key, in sorted order so two
// overlapping multi-key operations cannot deadlock. The store's row locks are
// the real guard; this keeps hot keys from hammering the database.
func (uc *stockUseCase) lockKeys(ctx context.Context, keys ...string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	lockValue := uuid.New().String()
	held := make([]string, 0, len(keys))

	release := func() {
		for _, key := range held {
			if err := uc.cache.ReleaseLock(ctx, key, lockValue); err != nil {
				uc.logger.Error("failed to release stock lock", zap.Error(err), zap.String("key", key))
			}
		}
	}

	for _, key := range keys {
		acquired := false
		for i := 0; i < lockRetries; i++ {
			ok, err := uc.cache.AcquireLock(ctx, key, lockValue, lockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(lockRetryDelay)
		}
		if !acquired {
			release()
			return nil, apperrors.ErrLockBusy
		}
		held = append(held, key)
	}

	return release, nil
}

func stockKey(locationID, productID string) string {
	return fmt.Sprintf("lock:stock:%s:%s", locationID, productID)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func disposalBucket(reasonCode string) (model.StockBucket, bool) {
	switch reasonCode {
	case dto.ReasonDamage:
		return model.BucketDamaged, true
	case dto.ReasonExpiry:
		return model.BucketExpired, true
	}
	return "", false
}
