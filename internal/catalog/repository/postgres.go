package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/retailops/inventory-service/internal/apperrors"
	"github.com/retailops/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrProductNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE sku = $1`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: sku %s", apperrors.ErrProductNotFound, sku)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	var l model.Location
	err := r.DB.GetContext(ctx, &l, `SELECT * FROM locations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrLocationNotFound, id)
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) GetLocationByCode(ctx context.Context, code string) (*model.Location, error) {
	var l model.Location
	err := r.DB.GetContext(ctx, &l, `SELECT * FROM locations WHERE code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrLocationNotFound, code)
		}
		return nil, err
	}
	return &l, nil
}
