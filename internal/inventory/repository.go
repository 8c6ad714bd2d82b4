package inventory

import (
	"context"

	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
)

type Repository interface {
	// Ledger reads
	GetEntry(ctx context.Context, productID, locationID string, status model.StockBucket) (*model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.LedgerFilters) ([]model.InventoryItem, int, error)

	// ApplyDeltas is the only mutation path into the ledger. The whole batch
	// commits in one transaction or not at all; each change writes one
	// movement row alongside the quantity update.
	ApplyDeltas(ctx context.Context, changes []dto.StockChange) error

	// Movement history
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
