package dto

import "github.com/retailops/inventory-service/internal/model"

type TransferLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateTransferInput struct {
	TransferType          model.TransferType
	SourceLocationID      string
	DestinationLocationID string
	Items                 []TransferLineInput
	UserID                string
}

// ShipLineInput overrides the shipped quantity of one line for a partial
// shipment. Lines without an override ship their full requested quantity.
type ShipLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type ShipTransferInput struct {
	TransferNumber string
	Lines          []ShipLineInput
	UserID         string
}

type ReceiveLineInput struct {
	ProductID string              `json:"product_id"`
	Quantity  int64               `json:"quantity"`
	Condition model.ItemCondition `json:"condition"`
}

type ReceiveTransferInput struct {
	TransferNumber string
	Lines          []ReceiveLineInput
	UserID         string
}

type CancelTransferInput struct {
	TransferNumber string
	Reason         string
	UserID         string
}

type ApproveTransferInput struct {
	TransferNumber string
	UserID         string
	Role           string
}
