package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

// MemoryRepository is an in-memory catalog used by tests and local
// development. It mirrors the Postgres repository's semantics, including the
// conjunctive variant filter and the ledger-projected stock.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	colors   map[int64]model.Color
	sizes    map[int64]model.Size
	variants map[int64]model.Variant
	stockFn  func(variantID int64) int64
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: map[int64]model.Product{},
		colors:   map[int64]model.Color{},
		sizes:    map[int64]model.Size{},
		variants: map[int64]model.Variant{},
	}
}

// SetStockFn wires the ledger projection in; without one every variant reads
// as zero stock.
func (r *MemoryRepository) SetStockFn(fn func(variantID int64) int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stockFn = fn
}

func (r *MemoryRepository) stockOf(variantID int64) int64 {
	if r.stockFn == nil {
		return 0
	}
	return r.stockFn(variantID)
}

func (r *MemoryRepository) allocID() int64 {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepository) CreateProduct(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.allocID()
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepository) FindProductByID(_ context.Context, id int64) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryRepository) FindProducts(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.Product
	for _, p := range r.products {
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.MinPrice != nil && p.BasePrice < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.BasePrice > *f.MaxPrice {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		if (len(f.ColorIDs) > 0 || len(f.SizeIDs) > 0) && !r.hasMatchingVariant(p.ID, f.ColorIDs, f.SizeIDs) {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, f.SortBy, f.SortOrder)

	total := len(matched)
	if f.PageSize > 0 {
		start := (f.Page - 1) * f.PageSize
		if start < 0 {
			start = 0
		}
		if start > total {
			start = total
		}
		end := start + f.PageSize
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

// hasMatchingVariant applies the conjunctive rule: one and the same active
// in-stock variant must satisfy both attribute sets.
func (r *MemoryRepository) hasMatchingVariant(productID int64, colorIDs, sizeIDs []int64) bool {
	for _, v := range r.variants {
		if v.ProductID != productID || !v.IsActive {
			continue
		}
		if r.stockOf(v.ID) <= 0 {
			continue
		}
		if len(colorIDs) > 0 && !containsID(colorIDs, v.ColorID) {
			continue
		}
		if len(sizeIDs) > 0 && !containsID(sizeIDs, v.SizeID) {
			continue
		}
		return true
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sortProducts(products []model.Product, sortBy, sortOrder string) {
	asc := strings.ToLower(sortOrder) == "asc"
	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "name":
			less = products[i].Name < products[j].Name
		case "price":
			less = products[i].BasePrice < products[j].BasePrice
		default:
			less = products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

func (r *MemoryRepository) UpdateProduct(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *MemoryRepository) DeactivateProduct(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.IsActive = false
		r.products[id] = p
	}
	for vid, v := range r.variants {
		if v.ProductID == id {
			v.IsActive = false
			r.variants[vid] = v
		}
	}
	return nil
}

func (r *MemoryRepository) CreateVariant(_ context.Context, v *model.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = r.allocID()
	r.variants[v.ID] = *v
	return nil
}

func (r *MemoryRepository) UpdateVariant(_ context.Context, v *model.Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[v.ID] = *v
	return nil
}

func (r *MemoryRepository) FindVariantByID(_ context.Context, id int64) (*model.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variants[id]
	if !ok {
		return nil, nil
	}
	v.Stock = r.stockOf(v.ID)
	return &v, nil
}

func (r *MemoryRepository) FindVariants(_ context.Context, productID int64) ([]model.VariantDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var details []model.VariantDetail
	for _, v := range r.variants {
		if v.ProductID != productID {
			continue
		}
		v.Stock = r.stockOf(v.ID)
		detail := model.VariantDetail{Variant: v}
		if c, ok := r.colors[v.ColorID]; ok {
			detail.ColorName = c.Name
			detail.ColorHex = c.HexCode
		}
		if s, ok := r.sizes[v.SizeID]; ok {
			detail.SizeValue = s.Value
			detail.SizeSystem = s.System
			detail.SizeSortOrder = s.SortOrder
		}
		details = append(details, detail)
	}

	sort.SliceStable(details, func(i, j int) bool {
		if details[i].ColorName != details[j].ColorName {
			return details[i].ColorName < details[j].ColorName
		}
		return details[i].SizeSortOrder < details[j].SizeSortOrder
	})
	return details, nil
}

func (r *MemoryRepository) FindActiveTriple(_ context.Context, productID, colorID, sizeID int64) (*model.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.variants {
		if v.ProductID == productID && v.ColorID == colorID && v.SizeID == sizeID && v.IsActive {
			v.Stock = r.stockOf(v.ID)
			return &v, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) SetVariantActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.variants[id]; ok {
		v.IsActive = active
		r.variants[id] = v
	}
	return nil
}

func (r *MemoryRepository) FindColorByID(_ context.Context, id int64) (*model.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.colors[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) FindSizeByID(_ context.Context, id int64) (*model.Size, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sizes[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepository) ListColors(_ context.Context) ([]model.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	colors := make([]model.Color, 0, len(r.colors))
	for _, c := range r.colors {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i].Name < colors[j].Name })
	return colors, nil
}

func (r *MemoryRepository) ListSizes(_ context.Context) ([]model.Size, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sizes := make([]model.Size, 0, len(r.sizes))
	for _, s := range r.sizes {
		sizes = append(sizes, s)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].SortOrder < sizes[j].SortOrder })
	return sizes, nil
}

func (r *MemoryRepository) CreateColor(_ context.Context, c *model.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.allocID()
	r.colors[c.ID] = *c
	return nil
}

func (r *MemoryRepository) CreateSize(_ context.Context, s *model.Size) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.allocID()
	r.sizes[s.ID] = *s
	return nil
}
