package dto

import "github.com/retailops/inventory-service/internal/model"

type TransferFilters struct {
	Status     model.TransferStatus
	LocationID string // matches source or destination
	Page       int
	PageSize   int
}
