package model

import "time"

type TransferStatus string

const (
	TransferDraft             TransferStatus = "DRAFT"
	TransferSubmitted         TransferStatus = "SUBMITTED"
	TransferApproved          TransferStatus = "APPROVED"
	TransferSent              TransferStatus = "SENT"
	TransferPartiallyReceived TransferStatus = "PARTIALLY_RECEIVED"
	TransferReceived          TransferStatus = "RECEIVED"
	TransferCancelled         TransferStatus = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s TransferStatus) Terminal() bool {
	return s == TransferReceived || s == TransferCancelled
}

type TransferType string

const (
	// TransferRestock moves warehouse stock out to a store.
	TransferRestock TransferType = "RESTOCK"
	// TransferReturn sends store stock back to a warehouse.
	TransferReturn TransferType = "RETURN"
	// TransferRedistribute rebalances between warehouses.
	TransferRedistribute TransferType = "REDISTRIBUTE"
)

func (t TransferType) Valid() bool {
	return t == TransferRestock || t == TransferReturn || t == TransferRedistribute
}

// AllowedEndpoints returns the location types a transfer of this type must
// run between.
func (t TransferType) AllowedEndpoints() (source, destination LocationType) {
	switch t {
	case TransferRestock:
		return LocationWarehouse, LocationStore
	case TransferReturn:
		return LocationStore, LocationWarehouse
	default:
		return LocationWarehouse, LocationWarehouse
	}
}

type ItemCondition string

const (
	ConditionGood    ItemCondition = "GOOD"
	ConditionDamaged ItemCondition = "DAMAGED"
	ConditionExpired ItemCondition = "EXPIRED"
)

func (c ItemCondition) Valid() bool {
	return c == ConditionGood || c == ConditionDamaged || c == ConditionExpired
}

// Bucket maps the condition discovered at receipt time to the ledger bucket
// the received quantity lands in.
func (c ItemCondition) Bucket() StockBucket {
	switch c {
	case ConditionDamaged:
		return BucketDamaged
	case ConditionExpired:
		return BucketExpired
	default:
		return BucketAvailable
	}
}

// Transfer is the workflow header. It references ledger entries by
// product+location key but does not own them.
type Transfer struct {
	ID                    string         `db:"id" json:"id"`
	TransferNumber        string         `db:"transfer_number" json:"transfer_number"`
	TransferType          TransferType   `db:"transfer_type" json:"transfer_type"`
	SourceLocationID      string         `db:"source_location_id" json:"source_location_id"`
	DestinationLocationID string         `db:"destination_location_id" json:"destination_location_id"`
	Status                TransferStatus `db:"status" json:"status"`
	TotalItems            int64          `db:"total_items" json:"total_items"`
	TotalCost             float64        `db:"total_cost" json:"total_cost"`
	TotalRetail           float64        `db:"total_retail" json:"total_retail"`
	CancelReason          *string        `db:"cancel_reason" json:"cancel_reason"`
	CreatedBy             *string        `db:"created_by" json:"created_by"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
	CompletedAt           *time.Time     `db:"completed_at" json:"completed_at"`

	Items []TransferItem `db:"-" json:"items"`
}

// TransferItem is one line of a transfer.
// Invariant: 0 <= ReceivedQuantity <= ShippedQuantity <= RequestedQuantity.
type TransferItem struct {
	ID                string        `db:"id" json:"id"`
	TransferID        string        `db:"transfer_id" json:"transfer_id"`
	ProductID         string        `db:"product_id" json:"product_id"`
	RequestedQuantity int64         `db:"requested_quantity" json:"requested_quantity"`
	ShippedQuantity   int64         `db:"shipped_quantity" json:"shipped_quantity"`
	ReceivedQuantity  int64         `db:"received_quantity" json:"received_quantity"`
	Condition         ItemCondition `db:"condition" json:"condition"`
}

// Outstanding is the shipped quantity not yet received.
func (i TransferItem) Outstanding() int64 {
	return i.ShippedQuantity - i.ReceivedQuantity
}
