package dto

import (
	"strconv"
	"strings"

	catalogdto "github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/common"
)

// ListProductsQuery is the raw shopper-facing query string. color_ids and
// size_ids arrive as comma-separated integers.
type ListProductsQuery struct {
	CategoryID *int64   `form:"category_id"`
	MinPrice   *float64 `form:"min_price"`
	MaxPrice   *float64 `form:"max_price"`
	Search     string   `form:"search"`
	ColorIDs   string   `form:"color_ids"`
	SizeIDs    string   `form:"size_ids"`
	SortBy     string   `form:"sort_by"`
	SortOrder  string   `form:"sort_order"`
	Page       int      `form:"page,default=1"`
	Limit      int      `form:"limit,default=20"`
}

// ToFilters validates and converts the query into repository filters.
// Shopper-facing listings only ever see active products.
func (q *ListProductsQuery) ToFilters() (*catalogdto.ProductFilters, error) {
	var fields []common.FieldError

	colorIDs, err := ParseIDList(q.ColorIDs)
	if err != nil {
		fields = append(fields, common.FieldError{Field: "color_ids", Message: "must be comma-separated integers"})
	}
	sizeIDs, err := ParseIDList(q.SizeIDs)
	if err != nil {
		fields = append(fields, common.FieldError{Field: "size_ids", Message: "must be comma-separated integers"})
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		fields = append(fields, common.FieldError{Field: "min_price", Message: "must not exceed max_price"})
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid listing query", fields...)
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	active := true
	return &catalogdto.ProductFilters{
		CategoryID: q.CategoryID,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Search:     strings.TrimSpace(q.Search),
		ColorIDs:   colorIDs,
		SizeIDs:    sizeIDs,
		IsActive:   &active,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Page:       page,
		PageSize:   limit,
	}, nil
}

// ParseIDList parses "1,2,3" into ids, tolerating blanks and whitespace.
func ParseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
