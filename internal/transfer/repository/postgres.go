package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/retailops/inventory-service/internal/apperrors"
	"github.com/retailops/inventory-service/internal/model"
	"github.com/retailops/inventory-service/internal/transfer/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// NextTransferNumber draws from a dedicated sequence so numbers are globally
// unique and monotonic across concurrent creations.
func (r *PGRepository) NextTransferNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.DB.GetContext(ctx, &n, `SELECT nextval('transfer_number_seq')`); err != nil {
		return "", err
	}
	return fmt.Sprintf("TRF-%06d", n), nil
}

func (r *PGRepository) Create(ctx context.Context, t *model.Transfer) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertHeader := `
        INSERT INTO transfers (
            id, transfer_number, transfer_type, source_location_id, destination_location_id,
            status, total_items, total_cost, total_retail, cancel_reason, created_by,
            created_at, updated_at, completed_at
        )
        VALUES (
            :id, :transfer_number, :transfer_type, :source_location_id, :destination_location_id,
            :status, :total_items, :total_cost, :total_retail, :cancel_reason, :created_by,
            :created_at, :updated_at, :completed_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertHeader, t); err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	insertItem := `
        INSERT INTO transfer_items (
            id, transfer_id, product_id, requested_quantity, shipped_quantity, received_quantity, condition
        )
        VALUES (
            :id, :transfer_id, :product_id, :requested_quantity, :shipped_quantity, :received_quantity, :condition
        )
    `
	for _, item := range t.Items {
		if _, err := tx.NamedExecContext(ctx, insertItem, item); err != nil {
			return fmt.Errorf("failed to insert transfer item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) GetByNumber(ctx context.Context, transferNumber string) (*model.Transfer, error) {
	var t model.Transfer
	err := r.DB.GetContext(ctx, &t, `SELECT * FROM transfers WHERE transfer_number = $1`, transferNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrTransferNotFound, transferNumber)
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &t.Items,
		`SELECT * FROM transfer_items WHERE transfer_id = $1 ORDER BY product_id`, t.ID)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.Transfer, int, error) {
	var items []model.Transfer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.LocationID != "" {
		conditions = append(conditions, "(source_location_id = :location_id OR destination_location_id = :location_id)")
		args["location_id"] = f.LocationID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM transfers" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM transfers" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) Update(ctx context.Context, t *model.Transfer) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updateHeader := `
        UPDATE transfers
        SET status = :status,
            total_items = :total_items,
            total_cost = :total_cost,
            total_retail = :total_retail,
            cancel_reason = :cancel_reason,
            updated_at = :updated_at,
            completed_at = :completed_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, updateHeader, t); err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}

	updateItem := `
        UPDATE transfer_items
        SET requested_quantity = :requested_quantity,
            shipped_quantity = :shipped_quantity,
            received_quantity = :received_quantity,
            condition = :condition
        WHERE id = :id
    `
	for _, item := range t.Items {
		if _, err := tx.NamedExecContext(ctx, updateItem, item); err != nil {
			return fmt.Errorf("failed to update transfer item: %w", err)
		}
	}

	return tx.Commit()
}
