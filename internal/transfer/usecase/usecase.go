package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/inventory-service/internal/apperrors"
	"github.com/retailops/inventory-service/internal/audit"
	"github.com/retailops/inventory-service/internal/auth"
	"github.com/retailops/inventory-service/internal/catalog"
	"github.com/retailops/inventory-service/internal/inventory"
	invdto "github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"github.com/retailops/inventory-service/internal/transfer"
	"github.com/retailops/inventory-service/internal/transfer/dto"
	"go.uber.org/zap"
)

type transferUseCase struct {
	repo     transfer.Repository
	gateway  inventory.UseCase
	catalog  catalog.Repository
	recorder audit.Recorder
	logger   logger.ZapLogger
}

func NewTransferUseCase(
	repo transfer.Repository,
	gateway inventory.UseCase,
	cat catalog.Repository,
	recorder audit.Recorder,
	log logger.ZapLogger,
) transfer.UseCase {
	return &transferUseCase{
		repo:     repo,
		gateway:  gateway,
		catalog:  cat,
		recorder: recorder,
		logger:   log,
	}
}

func (uc *transferUseCase) Create(ctx context.Context, input *dto.CreateTransferInput) (*model.Transfer, error) {
	if !input.TransferType.Valid() {
		return nil, fmt.Errorf("%w: unknown transfer type %q", apperrors.ErrInvalidState, input.TransferType)
	}
	if input.SourceLocationID == input.DestinationLocationID {
		return nil, fmt.Errorf("%w: source and destination must differ", apperrors.ErrInvalidQuantity)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: transfer needs at least one line", apperrors.ErrInvalidQuantity)
	}

	source, err := uc.catalog.GetLocation(ctx, input.SourceLocationID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.catalog.GetLocation(ctx, input.DestinationLocationID)
	if err != nil {
		return nil, err
	}

	wantSource, wantDestination := input.TransferType.AllowedEndpoints()
	if source.Type != wantSource || destination.Type != wantDestination {
		return nil, fmt.Errorf("%w: %s requires %s -> %s, got %s -> %s",
			apperrors.ErrInvalidState, input.TransferType,
			wantSource, wantDestination, source.Type, destination.Type)
	}

	seen := map[string]struct{}{}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %d for product %s", apperrors.ErrInvalidQuantity, line.Quantity, line.ProductID)
		}
		if _, ok := seen[line.ProductID]; ok {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrDuplicateProduct, line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
		if _, err := uc.catalog.GetProduct(ctx, line.ProductID); err != nil {
			return nil, err
		}
	}

	number, err := uc.repo.NextTransferNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}

	t := &model.Transfer{
		ID:                    uuid.New().String(),
		TransferNumber:        number,
		TransferType:          input.TransferType,
		SourceLocationID:      input.SourceLocationID,
		DestinationLocationID: input.DestinationLocationID,
		Status:                model.TransferDraft,
		CreatedBy:             createdBy,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	for _, line := range input.Items {
		t.Items = append(t.Items, model.TransferItem{
			ID:                uuid.New().String(),
			TransferID:        t.ID,
			ProductID:         line.ProductID,
			RequestedQuantity: line.Quantity,
			Condition:         model.ConditionGood,
		})
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, "transfer", t.TransferNumber, "create", input.UserID, t)
	uc.logger.Info("transfer created",
		zap.String("transfer_number", t.TransferNumber),
		zap.String("type", string(t.TransferType)),
	)

	return t, nil
}

func (uc *transferUseCase) Submit(ctx context.Context, transferNumber, userID string) (*model.Transfer, error) {
	t, err := uc.repo.GetByNumber(ctx, transferNumber)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TransferDraft {
		return nil, apperrors.InvalidTransition(transferNumber, string(t.Status), "submit")
	}

	if err := uc.recomputeTotals(ctx, t); err != nil {
		return nil, err
	}

	t.Status = model.TransferSubmitted
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, "transfer", t.TransferNumber, "submit", userID, nil)
	return t, nil
}

func (uc *transferUseCase) Approve(ctx context.Context, input *dto.ApproveTransferInput) (*model.Transfer, error) {
	principal := auth.Principal{UserID: input.UserID, Role: input.Role}
	if !principal.IsManager() {
		return nil, fmt.Errorf("%w: role %q cannot approve transfers", apperrors.ErrUnauthorized, input.Role)
	}

	t, err := uc.repo.GetByNumber(ctx, input.TransferNumber)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TransferSubmitted {
		return nil, apperrors.InvalidTransition(input.TransferNumber, string(t.Status), "approve")
	}

	t.Status = model.TransferApproved
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, "transfer", t.TransferNumber, "approve", input.UserID, nil)
	return t, nil
}

// Ship commits the outbound side: every line's shipped quantity leaves the
// source AVAILABLE bucket and parks in the source IN_TRANSIT bucket in one
// atomic batch. Any short line aborts the whole batch and the transfer stays
// APPROVED.
func (uc *transferUseCase) Ship(ctx context.Context, input *dto.ShipTransferInput) (*model.Transfer, error) {
	t, err := uc.repo.GetByNumber(ctx, input.TransferNumber)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TransferApproved {
		return nil, apperrors.InvalidTransition(input.TransferNumber, string(t.Status), "ship")
	}

	overrides := map[string]int64{}
	for _, line := range input.Lines {
		if _, ok := overrides[line.ProductID]; ok {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrDuplicateProduct, line.ProductID)
		}
		overrides[line.ProductID] = line.Quantity
	}
	for productID := range overrides {
		if findItem(t, productID) == nil {
			return nil, fmt.Errorf("%w: product %s on transfer %s", apperrors.ErrTransferItemNotFound, productID, t.TransferNumber)
		}
	}

	moves := make([]invdto.StockMove, 0, len(t.Items))
	for i := range t.Items {
		item := &t.Items[i]
		shipped := item.RequestedQuantity
		if qty, ok := overrides[item.ProductID]; ok {
			if qty <= 0 || qty > item.RequestedQuantity {
				return nil, fmt.Errorf("%w: shipped %d of requested %d for product %s",
					apperrors.ErrInvalidQuantity, qty, item.RequestedQuantity, item.ProductID)
			}
			shipped = qty
		}
		item.ShippedQuantity = shipped
		moves = append(moves, invdto.StockMove{
			ProductID:      item.ProductID,
			FromLocationID: t.SourceLocationID,
			FromBucket:     model.BucketAvailable,
			ToLocationID:   t.SourceLocationID,
			ToBucket:       model.BucketInTransit,
			Quantity:       shipped,
		})
	}

	err = uc.gateway.MoveStock(ctx, &invdto.MoveStockInput{
		Moves:         moves,
		ReferenceType: "transfer",
		ReferenceID:   t.TransferNumber,
		Notes:         "ship",
		UserID:        input.UserID,
	})
	if err != nil {
		return nil, err
	}

	t.Status = model.TransferSent
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, "transfer", t.TransferNumber, "ship", input.UserID, input.Lines)
	uc.logger.Info("transfer shipped", zap.String("transfer_number", t.TransferNumber))
	return t, nil
}

// Receive books arrived quantity per line, routed by discovered condition:
// GOOD lands in the destination AVAILABLE bucket, DAMAGED and EXPIRED in
// their own buckets. Received quantity only ever grows and never exceeds the
// shipped quantity.
func (uc *transferUseCase) Receive(ctx context.Context, input *dto.ReceiveTransferInput) (*model.Transfer, error) {
	t, err := uc.repo.GetByNumber(ctx, input.TransferNumber)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TransferSent && t.Status != model.TransferPartiallyReceived {
		return nil, apperrors.InvalidTransition(input.TransferNumber, string(t.Status), "receive")
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: receive needs at least one line", apperrors.ErrInvalidQuantity)
	}

	type receipt struct {
		item      *model.TransferItem
		quantity  int64
		condition model.ItemCondition
	}

	receipts := make([]receipt, 0, len(input.Lines))
	moves := make([]invdto.StockMove, 0, len(input.Lines))
	// Lines validate against Outstanding(), which only moves after the whole
	// batch commits. A second line for the same product would pass that check
	// on stale state, so one line per product.
	seen := map[string]struct{}{}
	for _, line := range input.Lines {
		if _, ok := seen[line.ProductID]; ok {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrDuplicateProduct, line.ProductID)
		}
		seen[line.ProductID] = struct{}{}
		item := findItem(t, line.ProductID)
		if item == nil {
			return nil, fmt.Errorf("%w: product %s on transfer %s", apperrors.ErrTransferItemNotFound, line.ProductID, t.TransferNumber)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %d for product %s", apperrors.ErrInvalidQuantity, line.Quantity, line.ProductID)
		}
		if line.Quantity > item.Outstanding() {
			return nil, fmt.Errorf("%w: received %d, outstanding %d for product %s",
				apperrors.ErrInvalidReceivedQuantity, line.Quantity, item.Outstanding(), line.ProductID)
		}
		condition := line.Condition
		if condition == "" {
			condition = model.ConditionGood
		}
		if !condition.Valid() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidCondition, line.Condition)
		}

		receipts = append(receipts, receipt{item: item, quantity: line.Quantity, condition: condition})
		moves = append(moves, invdto.StockMove{
			ProductID:      line.ProductID,
			FromLocationID: t.SourceLocationID,
			FromBucket:     model.BucketInTransit,
			ToLocationID:   t.DestinationLocationID,
			ToBucket:       condition.Bucket(),
			Quantity:       line.Quantity,
		})
	}

	err = uc.gateway.MoveStock(ctx, &invdto.MoveStockInput{
		Moves:         moves,
		ReferenceType: "transfer",
		ReferenceID:   t.TransferNumber,
		Notes:         "receive",
		UserID:        input.UserID,
	})
	if err != nil {
		return nil, err
	}

	for _, rc := range receipts {
		rc.item.ReceivedQuantity += rc.quantity
		rc.item.Condition = rc.condition
	}

	now := time.Now().UTC()
	if allReceived(t) {
		t.Status = model.TransferReceived
		t.CompletedAt = &now
	} else {
		t.Status = model.TransferPartiallyReceived
	}
	t.UpdatedAt = now

	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, "transfer", t.TransferNumber, "receive", input.UserID, input.Lines)
	uc.logger.Info("transfer received",
		zap.String("transfer_number", t.TransferNumber),
		zap.String("status", string(t.Status)),
	)
	return t, nil
}

// Cancel is only possible while nothing has left the source. Cancelling a
// SENT transfer would need a compensating reverse move, which this workflow
// does not define.
func (uc *transferUseCase) Cancel(ctx context.Context, input *dto.CancelTransferInput) (*model.Transfer, error) {
	if input.Reason == "" {
		return nil, apperrors.ErrReasonRequired
	}

	t, err := uc.repo.GetByNumber(ctx, input.TransferNumber)
	if err != nil {
		return nil, err
	}

	switch t.Status {
	case model.TransferDraft, model.TransferSubmitted, model.TransferApproved:
	default:
		return nil, apperrors.InvalidTransition(input.TransferNumber, string(t.Status), "cancel")
	}

	t.Status = model.TransferCancelled
	t.CancelReason = &input.Reason
	t.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, "transfer", t.TransferNumber, "cancel", input.UserID, input.Reason)
	return t, nil
}

func (uc *transferUseCase) Get(ctx context.Context, transferNumber string) (*model.Transfer, error) {
	return uc.repo.GetByNumber(ctx, transferNumber)
}

func (uc *transferUseCase) List(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *transferUseCase) recomputeTotals(ctx context.Context, t *model.Transfer) error {
	var items int64
	var cost, retail float64
	for _, line := range t.Items {
		p, err := uc.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return err
		}
		items += line.RequestedQuantity
		cost += float64(line.RequestedQuantity) * p.CostPrice
		retail += float64(line.RequestedQuantity) * p.RetailPrice
	}
	t.TotalItems = items
	t.TotalCost = cost
	t.TotalRetail = retail
	return nil
}

func findItem(t *model.Transfer, productID string) *model.TransferItem {
	for i := range t.Items {
		if t.Items[i].ProductID == productID {
			return &t.Items[i]
		}
	}
	return nil
}

func allReceived(t *model.Transfer) bool {
	for _, item := range t.Items {
		if item.ReceivedQuantity < item.ShippedQuantity {
			return false
		}
	}
	return true
}
