package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

// stockExpr is the ledger projection for a variant aliased v: current stock
// is the running sum of its entries, never a stored column.
const stockExpr = `COALESCE((SELECT SUM(se.quantity) FROM stock_entries se WHERE se.variant_id = v.id), 0)`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (name, description, base_price, category_id, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.BasePrice, p.CategoryID, p.IsActive, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *PGRepository) FindProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.IsActive != nil {
		conditions = append(conditions, "p.is_active = ?")
		args = append(args, *f.IsActive)
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "p.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "p.base_price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "p.base_price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.Search != "" {
		conditions = append(conditions, "(p.name ILIKE ? OR p.description ILIKE ?)")
		search := "%" + f.Search + "%"
		args = append(args, search, search)
	}

	// Variant-level constraint: the color and size sets apply to one and the
	// same in-stock variant. Filtering on red + size 9 must not match a
	// product whose only red variant is a size 8.
	if len(f.ColorIDs) > 0 || len(f.SizeIDs) > 0 {
		variantConds := []string{"v.product_id = p.id", "v.is_active = true", stockExpr + " > 0"}
		if len(f.ColorIDs) > 0 {
			variantConds = append(variantConds, "v.color_id IN (?)")
			args = append(args, f.ColorIDs)
		}
		if len(f.SizeIDs) > 0 {
			variantConds = append(variantConds, "v.size_id IN (?)")
			args = append(args, f.SizeIDs)
		}
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM variants v WHERE "+strings.Join(variantConds, " AND ")+")")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.In("SELECT count(*) FROM products p"+whereClause, args...)
	if err != nil {
		return nil, 0, err
	}
	countQuery = r.DB.Rebind(countQuery)

	var count int
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// Explicit sort key, whitelisted. Variant filtering narrows, never
	// reorders.
	orderBy := "p.created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "p.name"
		case "price":
			orderBy = "p.base_price"
		case "created_at":
			orderBy = "p.created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	listQuery := fmt.Sprintf("SELECT p.* FROM products p%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		listQuery += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	listQuery, listArgs, err := sqlx.In(listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	listQuery = r.DB.Rebind(listQuery)

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, listQuery, listArgs...); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            description = :description,
            base_price = :base_price,
            category_id = :category_id,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) DeactivateProduct(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1`, id); err != nil {
		return err
	}
	// Cascade so the product can never leave orphaned active variants behind.
	if _, err := tx.ExecContext(ctx,
		`UPDATE variants SET is_active = false, updated_at = NOW() WHERE product_id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) CreateVariant(ctx context.Context, v *model.Variant) error {
	query := `
        INSERT INTO variants (product_id, color_id, size_id, sku, price, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRowxContext(ctx, query,
		v.ProductID, v.ColorID, v.SizeID, v.SKU, v.Price, v.IsActive, v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
}

func (r *PGRepository) UpdateVariant(ctx context.Context, v *model.Variant) error {
	query := `
        UPDATE variants
        SET sku = :sku,
            price = :price,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, v)
	return err
}

func (r *PGRepository) FindVariantByID(ctx context.Context, id int64) (*model.Variant, error) {
	var variant model.Variant
	query := fmt.Sprintf(`SELECT v.*, %s AS stock FROM variants v WHERE v.id = $1 LIMIT 1`, stockExpr)
	err := r.DB.GetContext(ctx, &variant, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

func (r *PGRepository) FindVariants(ctx context.Context, productID int64) ([]model.VariantDetail, error) {
	query := fmt.Sprintf(`
        SELECT v.*, %s AS stock,
               c.name AS color_name, c.hex_code AS color_hex,
               s.value AS size_value, s.system AS size_system, s.sort_order AS size_sort_order
        FROM variants v
        JOIN colors c ON c.id = v.color_id
        JOIN sizes s ON s.id = v.size_id
        WHERE v.product_id = $1
        ORDER BY c.name, s.sort_order
    `, stockExpr)

	var variants []model.VariantDetail
	if err := r.DB.SelectContext(ctx, &variants, query, productID); err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *PGRepository) FindActiveTriple(ctx context.Context, productID, colorID, sizeID int64) (*model.Variant, error) {
	var variant model.Variant
	query := fmt.Sprintf(`
        SELECT v.*, %s AS stock
        FROM variants v
        WHERE v.product_id = $1 AND v.color_id = $2 AND v.size_id = $3 AND v.is_active = true
        LIMIT 1
    `, stockExpr)
	err := r.DB.GetContext(ctx, &variant, query, productID, colorID, sizeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

func (r *PGRepository) SetVariantActive(ctx context.Context, id int64, active bool) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE variants SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	return err
}

func (r *PGRepository) FindColorByID(ctx context.Context, id int64) (*model.Color, error) {
	var color model.Color
	err := r.DB.GetContext(ctx, &color, `SELECT * FROM colors WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &color, nil
}

func (r *PGRepository) FindSizeByID(ctx context.Context, id int64) (*model.Size, error) {
	var size model.Size
	err := r.DB.GetContext(ctx, &size, `SELECT * FROM sizes WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &size, nil
}

func (r *PGRepository) ListColors(ctx context.Context) ([]model.Color, error) {
	var colors []model.Color
	err := r.DB.SelectContext(ctx, &colors, `SELECT * FROM colors ORDER BY name`)
	return colors, err
}

func (r *PGRepository) ListSizes(ctx context.Context) ([]model.Size, error) {
	var sizes []model.Size
	err := r.DB.SelectContext(ctx, &sizes, `SELECT * FROM sizes ORDER BY sort_order`)
	return sizes, err
}

func (r *PGRepository) CreateColor(ctx context.Context, c *model.Color) error {
	return r.DB.QueryRowxContext(ctx,
		`INSERT INTO colors (name, hex_code) VALUES ($1, $2) RETURNING id`,
		c.Name, c.HexCode,
	).Scan(&c.ID)
}

func (r *PGRepository) CreateSize(ctx context.Context, s *model.Size) error {
	return r.DB.QueryRowxContext(ctx,
		`INSERT INTO sizes (value, system, sort_order) VALUES ($1, $2, $3) RETURNING id`,
		s.Value, s.System, s.SortOrder,
	).Scan(&s.ID)
}
