package transfer

import (
	"context"

	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/transfer/dto"
)

type Repository interface {
	NextTransferNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, t *model.Transfer) error
	GetByNumber(ctx context.Context, transferNumber string) (*model.Transfer, error)
	FindAll(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error)

	// Update persists the header and all lines in one transaction.
	Update(ctx context.Context, t *model.Transfer) error
}
