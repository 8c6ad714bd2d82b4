package dto

import (
	"time"

	"github.com/retailops/inventory-service/internal/model"
)

type LedgerFilters struct {
	ProductID  string
	LocationID string
	Status     model.StockBucket
	Page       int
	PageSize   int
}

type MovementFilters struct {
	ProductID    string
	LocationID   string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
