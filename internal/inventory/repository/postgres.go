package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/retailops/inventory-service/internal/apperrors"
	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetEntry(ctx context.Context, productID, locationID string, status model.StockBucket) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE product_id = $1 AND location_id = $2 AND status = $3`
	err := r.DB.GetContext(ctx, &item, query, productID, locationID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Absent entry means zero quantity; callers handle it.
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LedgerFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_items" + whereClause + " ORDER BY updated_at DESC"
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

// ApplyDeltas applies every change inside a single transaction. Each touched
// entry is read under FOR UPDATE so concurrent decrements of the same
// (product, location, status) key serialize on the row lock; a decrement that
// would go negative rolls the whole batch back.
func (r *PGRepository) ApplyDeltas(ctx context.Context, changes []dto.StockChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	for _, c := range changes {
		before, err := r.applyDelta(ctx, tx, &c, now)
		if err != nil {
			return err
		}

		movement := model.InventoryMovement{
			ID:             uuid.New().String(),
			ProductID:      c.ProductID,
			LocationID:     c.LocationID,
			Status:         c.Status,
			MovementType:   c.MovementType,
			QuantityChange: c.Delta,
			QuantityBefore: before,
			QuantityAfter:  before + c.Delta,
			ReferenceType:  c.ReferenceType,
			ReferenceID:    c.ReferenceID,
			Notes:          c.Notes,
			CreatedBy:      c.CreatedBy,
			CreatedAt:      now,
		}

		insertMovement := `
            INSERT INTO inventory_movements (
                id, product_id, location_id, status,
                movement_type, quantity_change, quantity_before, quantity_after,
                reference_type, reference_id, notes, created_by, created_at
            )
            VALUES (
                :id, :product_id, :location_id, :status,
                :movement_type, :quantity_change, :quantity_before, :quantity_after,
                :reference_type, :reference_id, :notes, :created_by, :created_at
            )
        `
		if _, err := tx.NamedExecContext(ctx, insertMovement, movement); err != nil {
			return fmt.Errorf("failed to log movement: %w", err)
		}
	}

	return tx.Commit()
}

// applyDelta mutates one entry and returns the quantity before the change.
func (r *PGRepository) applyDelta(ctx context.Context, tx *sqlx.Tx, c *dto.StockChange, now time.Time) (int64, error) {
	var current model.InventoryItem
	lockQuery := `
        SELECT * FROM inventory_items
        WHERE product_id = $1 AND location_id = $2 AND status = $3
        FOR UPDATE
    `
	err := tx.GetContext(ctx, &current, lockQuery, c.ProductID, c.LocationID, c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		if c.Delta < 0 {
			return 0, apperrors.InsufficientStock(c.ProductID, c.LocationID, string(c.Status), -c.Delta, 0)
		}
		item := model.InventoryItem{
			ID:              uuid.New().String(),
			ProductID:       c.ProductID,
			LocationID:      c.LocationID,
			Status:          c.Status,
			Quantity:        c.Delta,
			UnitCostPrice:   c.UnitCostPrice,
			UnitRetailPrice: c.UnitRetailPrice,
			UpdatedAt:       now,
		}
		insert := `
            INSERT INTO inventory_items (
                id, product_id, location_id, status,
                quantity, unit_cost_price, unit_retail_price, updated_at
            )
            VALUES (
                :id, :product_id, :location_id, :status,
                :quantity, :unit_cost_price, :unit_retail_price, :updated_at
            )
        `
		if _, err := tx.NamedExecContext(ctx, insert, item); err != nil {
			return 0, fmt.Errorf("failed to create ledger entry: %w", err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if current.Quantity+c.Delta < 0 {
		return 0, apperrors.InsufficientStock(c.ProductID, c.LocationID, string(c.Status), -c.Delta, current.Quantity)
	}

	update := `
        UPDATE inventory_items
        SET quantity = quantity + $1, updated_at = $2
        WHERE id = $3 AND quantity + $1 >= 0
    `
	res, err := tx.ExecContext(ctx, update, c.Delta, now, current.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update ledger entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		// Guarded twice: the row lock should make this unreachable.
		return 0, apperrors.InsufficientStock(c.ProductID, c.LocationID, string(c.Status), -c.Delta, current.Quantity)
	}

	return current.Quantity, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_movements" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC"
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
