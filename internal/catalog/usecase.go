package catalog

import (
	"context"

	"github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// UpsertVariant creates or reprices a variant, refusing a second active
	// variant on an occupied (product, color, size) triple. An inactive upsert
	// onto an occupied triple is also refused: inactive siblings would shadow
	// the triple's natural key, so retire the active variant first.
	UpsertVariant(ctx context.Context, input *dto.UpsertVariantInput) (*model.Variant, error)
	FindVariants(ctx context.Context, productID int64) ([]model.VariantDetail, error)
	SetVariantActive(ctx context.Context, variantID int64, active bool) error

	ListColors(ctx context.Context) ([]model.Color, error)
	ListSizes(ctx context.Context) ([]model.Size, error)
	CreateColor(ctx context.Context, input *dto.CreateColorInput) (*model.Color, error)
	CreateSize(ctx context.Context, input *dto.CreateSizeInput) (*model.Size, error)
}
