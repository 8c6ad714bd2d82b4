package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/stockstatus"
	"github.com/retailops/inventory-service/internal/stockstatus/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) SumBuckets(ctx context.Context, locationID, productID string) (int64, int64, error) {
	var row struct {
		Current  int64 `db:"current_stock"`
		Reserved int64 `db:"reserved_stock"`
	}
	query := `
        SELECT
            COALESCE(SUM(quantity) FILTER (WHERE status IN ('AVAILABLE', 'RESERVED')), 0) AS current_stock,
            COALESCE(SUM(quantity) FILTER (WHERE status = 'RESERVED'), 0) AS reserved_stock
        FROM inventory_items
        WHERE location_id = $1 AND product_id = $2
    `
	if err := r.DB.GetContext(ctx, &row, query, locationID, productID); err != nil {
		return 0, 0, err
	}
	return row.Current, row.Reserved, nil
}

func (r *PGRepository) Upsert(ctx context.Context, s *model.StockStatus) error {
	query := `
        INSERT INTO stock_status (
            id, location_id, product_id,
            current_stock, reserved_stock, available_stock, out_of_stock, last_movement_at
        )
        VALUES (
            :id, :location_id, :product_id,
            :current_stock, :reserved_stock, :available_stock, :out_of_stock, :last_movement_at
        )
        ON CONFLICT (location_id, product_id)
        DO UPDATE SET
            current_stock = EXCLUDED.current_stock,
            reserved_stock = EXCLUDED.reserved_stock,
            available_stock = EXCLUDED.available_stock,
            out_of_stock = EXCLUDED.out_of_stock,
            last_movement_at = EXCLUDED.last_movement_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, s)
	return err
}

func (r *PGRepository) Get(ctx context.Context, locationID, productID string) (*model.StockStatus, error) {
	var s model.StockStatus
	query := `SELECT * FROM stock_status WHERE location_id = $1 AND product_id = $2`
	err := r.DB.GetContext(ctx, &s, query, locationID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindByFilter(ctx context.Context, f *dto.StatusFilters) ([]model.StockStatus, int, error) {
	var items []model.StockStatus
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	switch f.StockType {
	case dto.StockTypeOutOfStock:
		conditions = append(conditions, "available_stock <= 0")
	case dto.StockTypeLowStock:
		conditions = append(conditions, fmt.Sprintf("available_stock > 0 AND available_stock <= %d", stockstatus.LowStockThreshold))
	case dto.StockTypeAvailable:
		conditions = append(conditions, "available_stock > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_status" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_status" + whereClause + " ORDER BY last_movement_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
