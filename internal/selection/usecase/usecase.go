package usecase

import (
	"context"

	"github.com/stridewear/catalog-service/internal/attrindex"
	"github.com/stridewear/catalog-service/internal/catalog"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/selection"
	"github.com/stridewear/catalog-service/internal/selection/dto"
)

// lowStockThreshold separates "low stock" from the ordinary in-stock state.
// Out of stock (zero) is never a reachable terminal state.
const lowStockThreshold = 5

type selectionUseCase struct {
	repo  catalog.Repository
	index attrindex.UseCase
}

func NewSelectionUseCase(repo catalog.Repository, index attrindex.UseCase) selection.UseCase {
	return &selectionUseCase{
		repo:  repo,
		index: index,
	}
}

func (uc *selectionUseCase) Evaluate(ctx context.Context, input *dto.EvaluateInput) (*dto.Result, error) {
	p, err := uc.repo.FindProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, common.NewNotFoundError("product not found")
	}

	colors, err := uc.index.ColorsFor(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if input.ColorID == nil {
		// A size on its own is an illegal action, rejected with the reason
		// rather than silently ignored.
		if input.SizeID != nil {
			return nil, common.NewValidationError("cannot select a size before a color",
				common.FieldError{Field: "color_id", Message: "select a color first"})
		}
		return &dto.Result{
			State:  dto.StateNoColorSelected,
			Colors: colors,
		}, nil
	}

	colorID := *input.ColorID
	colorKnown := false
	for _, c := range colors {
		if c.ID == colorID {
			colorKnown = true
			break
		}
	}
	if !colorKnown {
		return nil, common.NewNotFoundError("color is not available for this product")
	}

	sizeStocks, err := uc.index.SizesFor(ctx, input.ProductID, colorID)
	if err != nil {
		return nil, err
	}
	sizes := make([]dto.SizeOption, 0, len(sizeStocks))
	for _, s := range sizeStocks {
		sizes = append(sizes, dto.SizeOption{
			Size:       s.Size,
			Stock:      s.Stock,
			Selectable: s.Stock > 0,
		})
	}

	if input.SizeID == nil {
		return &dto.Result{
			State:  dto.StateColorSelected,
			Colors: colors,
			Sizes:  sizes,
		}, nil
	}

	sizeID := *input.SizeID
	var chosen *dto.SizeOption
	for i := range sizes {
		if sizes[i].Size.ID == sizeID {
			chosen = &sizes[i]
			break
		}
	}
	if chosen == nil {
		return nil, common.NewNotFoundError("size is not available for this color")
	}
	if !chosen.Selectable {
		return nil, common.NewValidationError("size is out of stock for this color",
			common.FieldError{Field: "size_id", Message: "out of stock"})
	}

	// Resolve the variant with a fresh stock read; the size options above may
	// be a hair stale if another shopper just bought the last unit.
	v, err := uc.repo.FindActiveTriple(ctx, input.ProductID, colorID, sizeID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, common.NewNotFoundError("variant is no longer available")
	}
	if v.Stock <= 0 {
		return nil, common.NewValidationError("size is out of stock for this color",
			common.FieldError{Field: "size_id", Message: "out of stock"})
	}

	return &dto.Result{
		State:  dto.StateColorAndSizeSelected,
		Colors: colors,
		Sizes:  sizes,
		Variant: &dto.ResolvedVariant{
			VariantID: v.ID,
			SKU:       v.SKU,
			Price:     v.EffectivePrice(p.BasePrice),
			Stock:     v.Stock,
			LowStock:  v.Stock < lowStockThreshold,
		},
	}, nil
}
