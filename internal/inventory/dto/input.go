package dto

import "github.com/retailops/inventory-service/internal/model"

type AdjustmentType string

const (
	AdjustmentAdd      AdjustmentType = "ADD"
	AdjustmentSubtract AdjustmentType = "SUBTRACT"
	AdjustmentSet      AdjustmentType = "SET"
)

func (t AdjustmentType) Valid() bool {
	return t == AdjustmentAdd || t == AdjustmentSubtract || t == AdjustmentSet
}

// Reason codes carried on adjustments. DAMAGE and EXPIRY route the subtracted
// quantity into the matching bucket instead of discarding it.
const (
	ReasonAdjustment = "ADJUSTMENT"
	ReasonRecount    = "RECOUNT"
	ReasonDamage     = "DAMAGE"
	ReasonExpiry     = "EXPIRY"
)

type AdjustStockInput struct {
	ProductID  string
	LocationID string
	Type       AdjustmentType
	Quantity   int64
	ReasonCode string
	UserID     string
}

type ReserveForSaleInput struct {
	ProductID   string
	LocationID  string
	Quantity    int64
	ReferenceID string
	UserID      string
}

// StockMove is one two-sided movement: quantity leaves the From bucket and
// lands in the To bucket, as an atomic pair.
type StockMove struct {
	ProductID      string
	FromLocationID string
	FromBucket     model.StockBucket
	ToLocationID   string
	ToBucket       model.StockBucket
	Quantity       int64
}

type MoveStockInput struct {
	Moves         []StockMove
	ReferenceType string
	ReferenceID   string
	Notes         string
	UserID        string
}

// StockChange is the ledger mutation primitive: one signed delta against one
// (product, location, status) entry, plus the movement row it writes.
type StockChange struct {
	ProductID       string
	LocationID      string
	Status          model.StockBucket
	Delta           int64
	UnitCostPrice   float64
	UnitRetailPrice float64
	MovementType    string
	ReferenceType   *string
	ReferenceID     *string
	Notes           string
	CreatedBy       *string
}
