package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) AppendEntry(ctx context.Context, e *model.StockEntry) error {
	query := `
        INSERT INTO stock_entries (variant_id, quantity, unit_cost, kind, reference, operator_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query,
		e.VariantID, e.Quantity, e.UnitCost, e.Kind, e.Reference, e.OperatorID, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *PGRepository) SumEntries(ctx context.Context, variantID int64) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_entries WHERE variant_id = $1`
	err := r.DB.GetContext(ctx, &sum, query, variantID)
	return sum, err
}

func (r *PGRepository) ListEntries(ctx context.Context, f *dto.EntryFilters) ([]model.StockEntry, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.VariantID != 0 {
		conditions = append(conditions, "variant_id = :variant_id")
		args["variant_id"] = f.VariantID
	}
	if f.Kind != "" {
		conditions = append(conditions, "kind = :kind")
		args["kind"] = f.Kind
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM stock_entries" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM stock_entries" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var entries []model.StockEntry
	err = nstmt.SelectContext(ctx, &entries, args)
	return entries, count, err
}
