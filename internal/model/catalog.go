package model

type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE"
	LocationStore     LocationType = "STORE"
)

func (t LocationType) Valid() bool {
	return t == LocationWarehouse || t == LocationStore
}

// Product is read-only reference data; catalog management lives elsewhere.
type Product struct {
	BaseModel
	SKU           string  `db:"sku" json:"sku"`
	Name          string  `db:"name" json:"name"`
	UnitOfMeasure string  `db:"unit_of_measure" json:"unit_of_measure"`
	CostPrice     float64 `db:"cost_price" json:"cost_price"`
	RetailPrice   float64 `db:"retail_price" json:"retail_price"`
	MinStockLevel int64   `db:"min_stock_level" json:"min_stock_level"`
	ReorderPoint  int64   `db:"reorder_point" json:"reorder_point"`
	IsActive      bool    `db:"is_active" json:"is_active"`
}

// Location is the unit of physical custody for inventory.
type Location struct {
	BaseModel
	Code     string       `db:"code" json:"code"`
	Name     string       `db:"name" json:"name"`
	Type     LocationType `db:"type" json:"type"`
	IsActive bool         `db:"is_active" json:"is_active"`
}
