package attrindex

import (
	"context"

	"github.com/stridewear/catalog-service/internal/model"
)

// SizeStock is one size of a (product, color) pairing annotated with current
// stock. Zero stock is a legal value: the UI shows the full size run and
// disables what is not buyable.
type SizeStock struct {
	Size  model.Size `json:"size"`
	Stock int64      `json:"stock"`
}

// UseCase derives the attribute surface of a product from the variant
// catalog. Pure derivation: no state of its own beyond a cache invalidated on
// every catalog or ledger write.
type UseCase interface {
	// ColorsFor lists colors on any active variant, in or out of stock.
	ColorsFor(ctx context.Context, productID int64) ([]model.Color, error)

	// SizesFor lists the sizes existing for the product and color, ordered by
	// the size's natural order, each with its current stock.
	SizesFor(ctx context.Context, productID, colorID int64) ([]SizeStock, error)

	// HasAnyStock reports whether at least one active variant has stock.
	HasAnyStock(ctx context.Context, productID int64) (bool, error)
}
