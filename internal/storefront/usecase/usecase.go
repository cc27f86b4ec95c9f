package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/attrindex"
	"github.com/stridewear/catalog-service/internal/catalog"
	catalogdto "github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/cache"
	"github.com/stridewear/catalog-service/internal/platform/logger"
	"github.com/stridewear/catalog-service/internal/platform/search"
	"github.com/stridewear/catalog-service/internal/storefront"
	"github.com/stridewear/catalog-service/internal/storefront/dto"
)

const productIndex = "products"

type storefrontUseCase struct {
	repo   catalog.Repository
	index  attrindex.UseCase
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.Logger
}

func NewStorefrontUseCase(repo catalog.Repository, index attrindex.UseCase, cache *cache.RedisClient, es *search.Client, log logger.Logger) storefront.UseCase {
	return &storefrontUseCase{
		repo:   repo,
		index:  index,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *storefrontUseCase) ListProducts(ctx context.Context, q *dto.ListProductsQuery) (*dto.ProductList, error) {
	filters, err := q.ToFilters()
	if err != nil {
		return nil, err
	}

	cacheKey, keyErr := listCacheKey(filters)
	if keyErr == nil && uc.cache != nil {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var result dto.ProductList
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return &result, nil
			}
		}
	}

	var products []model.Product
	var count int

	// The search index only serves pure text queries; any structural filter
	// (category, price, variant sets) goes to SQL so the conjunctive variant
	// predicate is applied in one place.
	if filters.Search != "" && uc.es != nil && uc.isPureSearch(filters) {
		products, count, err = uc.searchProducts(ctx, filters)
		if err != nil {
			uc.logger.Error("search index query failed, falling back to database", zap.Error(err))
			products, count, err = uc.repo.FindProducts(ctx, filters)
		}
	} else {
		products, count, err = uc.repo.FindProducts(ctx, filters)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductSummary, 0, len(products))
	for _, p := range products {
		inStock, err := uc.index.HasAnyStock(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.ProductSummary{Product: p, InStock: inStock})
	}

	result := &dto.ProductList{
		Items:      items,
		Pagination: common.NewPagination(filters.Page, filters.PageSize, count),
	}

	if keyErr == nil && uc.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return result, nil
}

func (uc *storefrontUseCase) GetProductDetail(ctx context.Context, id int64) (*dto.ProductDetail, error) {
	p, err := uc.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, common.NewNotFoundError("product not found")
	}

	variants, err := uc.repo.FindVariants(ctx, id)
	if err != nil {
		return nil, err
	}

	inStock, err := uc.index.HasAnyStock(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.ProductDetail{
		Product:  *p,
		Variants: variants,
		InStock:  inStock,
	}, nil
}

func (uc *storefrontUseCase) isPureSearch(f *catalogdto.ProductFilters) bool {
	return f.CategoryID == nil && f.MinPrice == nil && f.MaxPrice == nil &&
		len(f.ColorIDs) == 0 && len(f.SizeIDs) == 0
}

func (uc *storefrontUseCase) searchProducts(ctx context.Context, f *catalogdto.ProductFilters) ([]model.Product, int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"query_string": map[string]interface{}{
							"query":  fmt.Sprintf("*%s*", f.Search),
							"fields": []string{"name^3", "description"},
						},
					},
					{
						"term": map[string]interface{}{
							"is_active": true,
						},
					},
				},
			},
		},
		"from": (f.Page - 1) * f.PageSize,
		"size": f.PageSize,
	}

	res, err := uc.es.Search(ctx, productIndex, query)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func listCacheKey(f *catalogdto.ProductFilters) (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}
