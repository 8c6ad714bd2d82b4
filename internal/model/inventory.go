package model

import "time"

// StockBucket is the status dimension of a ledger entry. A physical unit
// occupies exactly one bucket at a time; moving it between buckets is a
// two-sided delta, never an in-place flip.
type StockBucket string

const (
	BucketAvailable   StockBucket = "AVAILABLE"
	BucketReserved    StockBucket = "RESERVED"
	BucketInTransit   StockBucket = "IN_TRANSIT"
	BucketDamaged     StockBucket = "DAMAGED"
	BucketExpired     StockBucket = "EXPIRED"
	BucketQuarantined StockBucket = "QUARANTINED"
)

func (b StockBucket) Valid() bool {
	switch b {
	case BucketAvailable, BucketReserved, BucketInTransit, BucketDamaged, BucketExpired, BucketQuarantined:
		return true
	}
	return false
}

// InventoryItem is one ledger entry: the quantity of a product held at a
// location in a single bucket. Keyed unique on (product_id, location_id, status).
// quantity never goes below zero; a zero-quantity row may be pruned but its
// identity is not reused.
type InventoryItem struct {
	ID              string      `db:"id" json:"id"`
	ProductID       string      `db:"product_id" json:"product_id"`
	LocationID      string      `db:"location_id" json:"location_id"`
	Status          StockBucket `db:"status" json:"status"`
	Quantity        int64       `db:"quantity" json:"quantity"`
	UnitCostPrice   float64     `db:"unit_cost_price" json:"unit_cost_price"`
	UnitRetailPrice float64     `db:"unit_retail_price" json:"unit_retail_price"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// InventoryMovement is the per-delta history row written alongside every
// ledger mutation, in the same transaction.
type InventoryMovement struct {
	ID             string      `db:"id" json:"id"`
	ProductID      string      `db:"product_id" json:"product_id"`
	LocationID     string      `db:"location_id" json:"location_id"`
	Status         StockBucket `db:"status" json:"status"`
	MovementType   string      `db:"movement_type" json:"movement_type"`
	QuantityChange int64       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int64       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int64       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string     `db:"reference_type" json:"reference_type"`
	ReferenceID    *string     `db:"reference_id" json:"reference_id"`
	Notes          string      `db:"notes" json:"notes"`
	CreatedBy      *string     `db:"created_by" json:"created_by"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// StockStatus is the derived per-(location, product) sellability row. It is
// always recomputable from ledger entries and is rebuilt, never hand-edited.
type StockStatus struct {
	ID             string    `db:"id" json:"id"`
	LocationID     string    `db:"location_id" json:"location_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	CurrentStock   int64     `db:"current_stock" json:"current_stock"`
	ReservedStock  int64     `db:"reserved_stock" json:"reserved_stock"`
	AvailableStock int64     `db:"available_stock" json:"available_stock"`
	OutOfStock     bool      `db:"out_of_stock" json:"out_of_stock"`
	LastMovementAt time.Time `db:"last_movement_at" json:"last_movement_at"`
}
