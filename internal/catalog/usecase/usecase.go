package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/catalog"
	"github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/cache"
	"github.com/stridewear/catalog-service/internal/platform/logger"
	"github.com/stridewear/catalog-service/internal/platform/search"
)

const productIndex = "products"

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.Logger
}

func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, es *search.Client, log logger.Logger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.Name == "" {
		return nil, common.NewValidationError("invalid product",
			common.FieldError{Field: "name", Message: "name is required"})
	}
	if input.BasePrice < 0 {
		return nil, common.NewValidationError("invalid product",
			common.FieldError{Field: "base_price", Message: "base price must not be negative"})
	}

	now := time.Now()
	var description *string
	if input.Description != "" {
		description = &input.Description
	}
	var categoryID *int64
	if input.CategoryID != 0 {
		cid := input.CategoryID
		categoryID = &cid
	}

	p := &model.Product{
		BaseModel:   model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:        input.Name,
		Description: description,
		BasePrice:   input.BasePrice,
		CategoryID:  categoryID,
		IsActive:    true,
	}

	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListingCaches(context.Background(), p.ID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.NewNotFoundError("product not found")
	}
	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindProductByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.NewNotFoundError("product not found")
	}
	if input.Name == "" {
		return nil, common.NewValidationError("invalid product",
			common.FieldError{Field: "name", Message: "name is required"})
	}
	if input.BasePrice < 0 {
		return nil, common.NewValidationError("invalid product",
			common.FieldError{Field: "base_price", Message: "base price must not be negative"})
	}

	p.Name = input.Name
	if input.Description != "" {
		p.Description = &input.Description
	} else {
		p.Description = nil
	}
	p.BasePrice = input.BasePrice
	if input.CategoryID != 0 {
		cid := input.CategoryID
		p.CategoryID = &cid
	} else {
		p.CategoryID = nil
	}
	p.IsActive = input.IsActive
	p.UpdatedAt = time.Now()

	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListingCaches(context.Background(), p.ID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

// DeleteProduct is a soft delete: the product disappears from shopper-facing
// listings and its variants are cascade-deactivated, but rows with ledger
// history stay queryable forever.
func (uc *catalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	p, err := uc.repo.FindProductByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return common.NewNotFoundError("product not found")
	}

	if err := uc.repo.DeactivateProduct(ctx, id); err != nil {
		return err
	}

	go uc.invalidateListingCaches(context.Background(), id)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, fmt.Sprintf("%d", id)); err != nil {
				uc.logger.Error("failed to delete product from search index", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *catalogUseCase) UpsertVariant(ctx context.Context, input *dto.UpsertVariantInput) (*model.Variant, error) {
	var fields []common.FieldError
	if input.SKU == "" {
		fields = append(fields, common.FieldError{Field: "sku", Message: "sku is required"})
	}
	if input.Price != nil && *input.Price < 0 {
		fields = append(fields, common.FieldError{Field: "price", Message: "price must not be negative"})
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid variant", fields...)
	}

	p, err := uc.repo.FindProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.NewNotFoundError("product not found")
	}
	color, err := uc.repo.FindColorByID(ctx, input.ColorID)
	if err != nil {
		return nil, err
	}
	if color == nil {
		return nil, common.NewNotFoundError("color not found")
	}
	size, err := uc.repo.FindSizeByID(ctx, input.SizeID)
	if err != nil {
		return nil, err
	}
	if size == nil {
		return nil, common.NewNotFoundError("size not found")
	}

	now := time.Now()

	existing, err := uc.repo.FindActiveTriple(ctx, input.ProductID, input.ColorID, input.SizeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !input.IsActive {
			return nil, common.NewDuplicateVariantError(
				fmt.Sprintf("an active variant already exists for product %d, color %d, size %d (variant %d)",
					input.ProductID, input.ColorID, input.SizeID, existing.ID))
		}
		// Same triple, same identity: treat as a repricing update.
		existing.SKU = input.SKU
		existing.Price = input.Price
		existing.UpdatedAt = now
		if err := uc.repo.UpdateVariant(ctx, existing); err != nil {
			return nil, err
		}
		go uc.invalidateListingCaches(context.Background(), input.ProductID)
		return existing, nil
	}

	v := &model.Variant{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		ProductID: input.ProductID,
		ColorID:   input.ColorID,
		SizeID:    input.SizeID,
		SKU:       input.SKU,
		Price:     input.Price,
		IsActive:  input.IsActive,
	}
	if err := uc.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}

	go uc.invalidateListingCaches(context.Background(), input.ProductID)

	return v, nil
}

func (uc *catalogUseCase) FindVariants(ctx context.Context, productID int64) ([]model.VariantDetail, error) {
	p, err := uc.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.NewNotFoundError("product not found")
	}
	return uc.repo.FindVariants(ctx, productID)
}

func (uc *catalogUseCase) SetVariantActive(ctx context.Context, variantID int64, active bool) error {
	v, err := uc.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		return err
	}
	if v == nil {
		return common.NewNotFoundError("variant not found")
	}

	if active {
		// Re-activating must not break the one-active-variant-per-triple
		// invariant.
		existing, err := uc.repo.FindActiveTriple(ctx, v.ProductID, v.ColorID, v.SizeID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != v.ID {
			return common.NewDuplicateVariantError(
				fmt.Sprintf("variant %d already covers this color and size", existing.ID))
		}
	}

	if err := uc.repo.SetVariantActive(ctx, variantID, active); err != nil {
		return err
	}

	go uc.invalidateListingCaches(context.Background(), v.ProductID)

	return nil
}

func (uc *catalogUseCase) ListColors(ctx context.Context) ([]model.Color, error) {
	return uc.repo.ListColors(ctx)
}

func (uc *catalogUseCase) ListSizes(ctx context.Context) ([]model.Size, error) {
	return uc.repo.ListSizes(ctx)
}

func (uc *catalogUseCase) CreateColor(ctx context.Context, input *dto.CreateColorInput) (*model.Color, error) {
	if input.Name == "" {
		return nil, common.NewValidationError("invalid color",
			common.FieldError{Field: "name", Message: "name is required"})
	}
	c := &model.Color{Name: input.Name}
	if input.HexCode != "" {
		hex := input.HexCode
		c.HexCode = &hex
	}
	if err := uc.repo.CreateColor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUseCase) CreateSize(ctx context.Context, input *dto.CreateSizeInput) (*model.Size, error) {
	if input.Value == "" {
		return nil, common.NewValidationError("invalid size",
			common.FieldError{Field: "value", Message: "value is required"})
	}
	s := &model.Size{Value: input.Value, System: input.System, SortOrder: input.SortOrder}
	if err := uc.repo.CreateSize(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// invalidateListingCaches drops the derived attribute-index entries for the
// product and every cached listing page. Invalidation, not expiry: a write
// must never serve a stale page for the rest of a TTL.
func (uc *catalogUseCase) invalidateListingCaches(ctx context.Context, productID int64) {
	if uc.cache == nil {
		return
	}
	patterns := []string{
		fmt.Sprintf("attrindex:%d:*", productID),
		"products:list:*",
	}
	for _, pattern := range patterns {
		if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
			uc.logger.Error("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"base_price": { "type": "double" },
				"category_id": { "type": "long" },
				"is_active": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	if err := uc.es.Index(ctx, productIndex, fmt.Sprintf("%d", p.ID), p); err != nil {
		uc.logger.Error("failed to index product", zap.Int64("product_id", p.ID), zap.Error(err))
	}
}
