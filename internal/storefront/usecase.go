package storefront

import (
	"context"

	"github.com/stridewear/catalog-service/internal/storefront/dto"
)

type UseCase interface {
	// ListProducts resolves the shopper's filters into a page of products.
	// Variant constraints narrow the candidate set, never reorder it;
	// pagination metadata is computed from the filtered set.
	ListProducts(ctx context.Context, q *dto.ListProductsQuery) (*dto.ProductList, error)

	// GetProductDetail returns an active product with its full variant list.
	GetProductDetail(ctx context.Context, id int64) (*dto.ProductDetail, error)
}
