package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/attrindex"
	"github.com/stridewear/catalog-service/internal/catalog"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/cache"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

// cacheTTL is a backstop only; correctness comes from explicit invalidation
// on catalog and ledger writes.
const cacheTTL = 5 * time.Minute

type attrIndexUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	logger logger.Logger
}

func NewAttrIndexUseCase(repo catalog.Repository, cache *cache.RedisClient, log logger.Logger) attrindex.UseCase {
	return &attrIndexUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *attrIndexUseCase) ColorsFor(ctx context.Context, productID int64) ([]model.Color, error) {
	cacheKey := fmt.Sprintf("attrindex:%d:colors", productID)
	var cached []model.Color
	if uc.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	variants, err := uc.activeVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	seen := map[int64]bool{}
	colors := []model.Color{}
	for _, v := range variants {
		if seen[v.ColorID] {
			continue
		}
		seen[v.ColorID] = true
		colors = append(colors, model.Color{
			ID:      v.ColorID,
			Name:    v.ColorName,
			HexCode: v.ColorHex,
		})
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i].Name < colors[j].Name })

	uc.writeCache(ctx, cacheKey, colors)
	return colors, nil
}

func (uc *attrIndexUseCase) SizesFor(ctx context.Context, productID, colorID int64) ([]attrindex.SizeStock, error) {
	cacheKey := fmt.Sprintf("attrindex:%d:sizes:%d", productID, colorID)
	var cached []attrindex.SizeStock
	if uc.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	variants, err := uc.activeVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	sizes := []attrindex.SizeStock{}
	for _, v := range variants {
		if v.ColorID != colorID {
			continue
		}
		sizes = append(sizes, attrindex.SizeStock{
			Size: model.Size{
				ID:        v.SizeID,
				Value:     v.SizeValue,
				System:    v.SizeSystem,
				SortOrder: v.SizeSortOrder,
			},
			Stock: v.Stock,
		})
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].Size.SortOrder < sizes[j].Size.SortOrder })

	uc.writeCache(ctx, cacheKey, sizes)
	return sizes, nil
}

func (uc *attrIndexUseCase) HasAnyStock(ctx context.Context, productID int64) (bool, error) {
	cacheKey := fmt.Sprintf("attrindex:%d:hasstock", productID)
	var cached bool
	if uc.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	variants, err := uc.activeVariants(ctx, productID)
	if err != nil {
		return false, err
	}

	hasStock := false
	for _, v := range variants {
		if v.Stock > 0 {
			hasStock = true
			break
		}
	}

	uc.writeCache(ctx, cacheKey, hasStock)
	return hasStock, nil
}

func (uc *attrIndexUseCase) activeVariants(ctx context.Context, productID int64) ([]model.VariantDetail, error) {
	p, err := uc.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.NewNotFoundError("product not found")
	}

	all, err := uc.repo.FindVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	active := all[:0:0]
	for _, v := range all {
		if v.IsActive {
			active = append(active, v)
		}
	}
	return active, nil
}

func (uc *attrIndexUseCase) readCache(ctx context.Context, key string, out interface{}) bool {
	if uc.cache == nil {
		return false
	}
	val, err := uc.cache.Client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (uc *attrIndexUseCase) writeCache(ctx context.Context, key string, val interface{}) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := uc.cache.Client.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		uc.logger.Warn("failed to write attrindex cache", zap.String("key", key), zap.Error(err))
	}
}
