package catalog

import (
	"context"

	"github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

type Repository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id int64) (*model.Product, error)
	FindProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, p *model.Product) error

	// DeactivateProduct soft-deletes the product and cascade-deactivates its
	// variants in one transaction. Nothing is physically deleted.
	DeactivateProduct(ctx context.Context, id int64) error

	CreateVariant(ctx context.Context, v *model.Variant) error
	UpdateVariant(ctx context.Context, v *model.Variant) error
	FindVariantByID(ctx context.Context, id int64) (*model.Variant, error)
	FindVariants(ctx context.Context, productID int64) ([]model.VariantDetail, error)

	// FindActiveTriple resolves the active variant on a (product, color, size)
	// natural key, nil when absent.
	FindActiveTriple(ctx context.Context, productID, colorID, sizeID int64) (*model.Variant, error)
	SetVariantActive(ctx context.Context, id int64, active bool) error

	FindColorByID(ctx context.Context, id int64) (*model.Color, error)
	FindSizeByID(ctx context.Context, id int64) (*model.Size, error)
	ListColors(ctx context.Context) ([]model.Color, error)
	ListSizes(ctx context.Context) ([]model.Size, error)
	CreateColor(ctx context.Context, c *model.Color) error
	CreateSize(ctx context.Context, s *model.Size) error
}
