package transfer

import (
	"context"

	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/transfer/dto"
)

// UseCase drives the transfer lifecycle:
// DRAFT -> SUBMITTED -> APPROVED -> SENT -> {PARTIALLY_RECEIVED ->} RECEIVED,
// with CANCELLED reachable until ship. Every stock-touching transition goes
// through the inventory gateway and is all-or-nothing per call.
type UseCase interface {
	Create(ctx context.Context, input *dto.CreateTransferInput) (*model.Transfer, error)
	Submit(ctx context.Context, transferNumber, userID string) (*model.Transfer, error)
	Approve(ctx context.Context, input *dto.ApproveTransferInput) (*model.Transfer, error)
	Ship(ctx context.Context, input *dto.ShipTransferInput) (*model.Transfer, error)
	Receive(ctx context.Context, input *dto.ReceiveTransferInput) (*model.Transfer, error)
	Cancel(ctx context.Context, input *dto.CancelTransferInput) (*model.Transfer, error)
	Get(ctx context.Context, transferNumber string) (*model.Transfer, error)
	List(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error)
}
