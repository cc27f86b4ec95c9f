package ledger

import (
	"context"

	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

// Repository is append-only by construction: there is no update or delete
// operation on stock entries.
type Repository interface {
	AppendEntry(ctx context.Context, e *model.StockEntry) error
	SumEntries(ctx context.Context, variantID int64) (int64, error)
	ListEntries(ctx context.Context, f *dto.EntryFilters) ([]model.StockEntry, int, error)
}
