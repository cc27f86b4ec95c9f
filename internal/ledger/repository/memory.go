package repository

import (
	"context"
	"sync"

	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

// MemoryRepository is the in-memory stock ledger used by tests and local
// development. Entries are only ever appended.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []model.StockEntry
	nextID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) AppendEntry(_ context.Context, e *model.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.entries = append(r.entries, *e)
	return nil
}

func (r *MemoryRepository) SumEntries(_ context.Context, variantID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, e := range r.entries {
		if e.VariantID == variantID {
			sum += e.Quantity
		}
	}
	return sum, nil
}

// Sum is SumEntries without a context, for wiring as a catalog stock
// projection in tests.
func (r *MemoryRepository) Sum(variantID int64) int64 {
	sum, _ := r.SumEntries(context.Background(), variantID)
	return sum
}

func (r *MemoryRepository) ListEntries(_ context.Context, f *dto.EntryFilters) ([]model.StockEntry, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.StockEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.VariantID != 0 && e.VariantID != f.VariantID {
			continue
		}
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		matched = append(matched, e)
	}

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
