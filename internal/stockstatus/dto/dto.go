package dto

type StockType string

const (
	StockTypeOutOfStock StockType = "out_of_stock"
	StockTypeLowStock   StockType = "low_stock"
	StockTypeAvailable  StockType = "available"
)

func (t StockType) Valid() bool {
	return t == StockTypeOutOfStock || t == StockTypeLowStock || t == StockTypeAvailable
}

type StatusFilters struct {
	LocationID string
	StockType  StockType
	Page       int
	PageSize   int
}
