package ledger

import (
	"context"

	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/model"
)

type UseCase interface {
	RecordImport(ctx context.Context, input *dto.RecordImportInput) (*model.StockEntry, error)
	RecordAdjustment(ctx context.Context, input *dto.RecordAdjustmentInput) (*model.StockEntry, error)
	ApplyFulfillment(ctx context.Context, input *dto.ApplyFulfillmentInput) (*model.StockEntry, error)

	// CurrentStock is the ledger sum for the variant, never negative: a
	// negative sum is surfaced as a stock-integrity fault instead.
	CurrentStock(ctx context.Context, variantID int64) (int64, error)
	ListEntries(ctx context.Context, f *dto.EntryFilters) ([]model.StockEntry, int, error)
}
