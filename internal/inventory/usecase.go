package inventory

import (
	"context"

	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
)

// UseCase is the gateway every stock mutation funnels through: manual
// adjustments, sale reservations, and transfer moves.
type UseCase interface {
	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryItem, error)
	ReserveForSale(ctx context.Context, input *dto.ReserveForSaleInput) (*model.InventoryItem, error)
	MoveStock(ctx context.Context, input *dto.MoveStockInput) error
	Query(ctx context.Context, filters *dto.LedgerFilters) ([]model.InventoryItem, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
