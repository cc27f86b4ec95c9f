package usecase

import (
	"context"
	"testing"

	attrusecase "github.com/stridewear/catalog-service/internal/attrindex/usecase"
	catalogrepo "github.com/stridewear/catalog-service/internal/catalog/repository"
	"github.com/stridewear/catalog-service/internal/common"
	ledgerrepo "github.com/stridewear/catalog-service/internal/ledger/repository"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/logger"
	"github.com/stridewear/catalog-service/internal/selection"
	"github.com/stridewear/catalog-service/internal/selection/dto"
)

// selectionFixture seeds "Runner X" (base price 120) with:
//
//	black / 9  → stock 3, priced 135
//	black / 10 → stock 0
//	white / 9  → stock 8
type selectionFixture struct {
	uc        selection.UseCase
	productID int64
	blackID   int64
	whiteID   int64
	size9ID   int64
	size10ID  int64
	blk9ID    int64
}

func newSelectionFixture(t *testing.T) *selectionFixture {
	t.Helper()
	ctx := context.Background()

	catRepo := catalogrepo.NewMemoryRepository()
	ledRepo := ledgerrepo.NewMemoryRepository()
	catRepo.SetStockFn(ledRepo.Sum)

	p := &model.Product{Name: "Runner X", BasePrice: 120, IsActive: true}
	if err := catRepo.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}

	black := &model.Color{Name: "black"}
	white := &model.Color{Name: "white"}
	size9 := &model.Size{Value: "9", System: "US", SortOrder: 9}
	size10 := &model.Size{Value: "10", System: "US", SortOrder: 10}
	for _, c := range []*model.Color{black, white} {
		if err := catRepo.CreateColor(ctx, c); err != nil {
			t.Fatalf("CreateColor returned error: %v", err)
		}
	}
	for _, s := range []*model.Size{size9, size10} {
		if err := catRepo.CreateSize(ctx, s); err != nil {
			t.Fatalf("CreateSize returned error: %v", err)
		}
	}

	price := 135.0
	blk9 := &model.Variant{ProductID: p.ID, ColorID: black.ID, SizeID: size9.ID, SKU: "RX-BLK-9", Price: &price, IsActive: true}
	seed := []struct {
		v     *model.Variant
		stock int64
	}{
		{blk9, 3},
		{&model.Variant{ProductID: p.ID, ColorID: black.ID, SizeID: size10.ID, SKU: "RX-BLK-10", IsActive: true}, 0},
		{&model.Variant{ProductID: p.ID, ColorID: white.ID, SizeID: size9.ID, SKU: "RX-WHT-9", IsActive: true}, 8},
	}
	for _, sv := range seed {
		if err := catRepo.CreateVariant(ctx, sv.v); err != nil {
			t.Fatalf("CreateVariant returned error: %v", err)
		}
		if sv.stock > 0 {
			if err := ledRepo.AppendEntry(ctx, &model.StockEntry{
				VariantID: sv.v.ID, Quantity: sv.stock, Kind: model.EntryKindImport,
			}); err != nil {
				t.Fatalf("AppendEntry returned error: %v", err)
			}
		}
	}

	index := attrusecase.NewAttrIndexUseCase(catRepo, nil, logger.NewNop())
	return &selectionFixture{
		uc:        NewSelectionUseCase(catRepo, index),
		productID: p.ID,
		blackID:   black.ID,
		whiteID:   white.ID,
		size9ID:   size9.ID,
		size10ID:  size10.ID,
		blk9ID:    blk9.ID,
	}
}

func TestEvaluateInitialStateListsColors(t *testing.T) {
	fx := newSelectionFixture(t)

	res, err := fx.uc.Evaluate(context.Background(), &dto.EvaluateInput{ProductID: fx.productID})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.State != dto.StateNoColorSelected {
		t.Fatalf("unexpected state %q", res.State)
	}
	if len(res.Colors) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(res.Colors))
	}
	if res.Variant != nil || len(res.Sizes) != 0 {
		t.Fatalf("initial state should carry colors only: %+v", res)
	}
}

func TestEvaluateRejectsSizeBeforeColor(t *testing.T) {
	fx := newSelectionFixture(t)

	_, err := fx.uc.Evaluate(context.Background(), &dto.EvaluateInput{
		ProductID: fx.productID, SizeID: &fx.size9ID,
	})
	if !common.IsCode(err, common.ErrCodeValidation) {
		t.Fatalf("expected validation error for size without color, got %v", err)
	}
}

func TestEvaluateColorSelectedShowsSizeRun(t *testing.T) {
	fx := newSelectionFixture(t)

	res, err := fx.uc.Evaluate(context.Background(), &dto.EvaluateInput{
		ProductID: fx.productID, ColorID: &fx.blackID,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.State != dto.StateColorSelected {
		t.Fatalf("unexpected state %q", res.State)
	}
	if len(res.Sizes) != 2 {
		t.Fatalf("expected 2 sizes for black, got %d", len(res.Sizes))
	}
	if !res.Sizes[0].Selectable || res.Sizes[0].Size.Value != "9" {
		t.Fatalf("size 9 should be first and selectable: %+v", res.Sizes[0])
	}
	// The empty size stays on display, greyed out.
	if res.Sizes[1].Selectable || res.Sizes[1].Size.Value != "10" {
		t.Fatalf("size 10 should be visible but not selectable: %+v", res.Sizes[1])
	}
}

func TestEvaluateRefusesOutOfStockSize(t *testing.T) {
	fx := newSelectionFixture(t)

	_, err := fx.uc.Evaluate(context.Background(), &dto.EvaluateInput{
		ProductID: fx.productID, ColorID: &fx.blackID, SizeID: &fx.size10ID,
	})
	if !common.IsCode(err, common.ErrCodeValidation) {
		t.Fatalf("expected validation error for out-of-stock size, got %v", err)
	}
}

func TestEvaluateTerminalStateResolvesVariant(t *testing.T) {
	fx := newSelectionFixture(t)

	res, err := fx.uc.Evaluate(context.Background(), &dto.EvaluateInput{
		ProductID: fx.productID, ColorID: &fx.blackID, SizeID: &fx.size9ID,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.State != dto.StateColorAndSizeSelected {
		t.Fatalf("unexpected state %q", res.State)
	}
	v := res.Variant
	if v == nil {
		t.Fatal("terminal state must resolve a variant")
	}
	if v.VariantID != fx.blk9ID || v.SKU != "RX-BLK-9" {
		t.Fatalf("wrong variant resolved: %+v", v)
	}
	if v.Price != 135 {
		t.Fatalf("variant price override not applied: got %v", v.Price)
	}
	if v.Stock != 3 || !v.LowStock {
		t.Fatalf("stock 3 should read as low stock: %+v", v)
	}
}

func TestEvaluateHighStockIsNotLow(t *testing.T) {
	fx := newSelectionFixture(t)

	res, err := fx.uc.Evaluate(context.Background(), &dto.EvaluateInput{
		ProductID: fx.productID, ColorID: &fx.whiteID, SizeID: &fx.size9ID,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	v := res.Variant
	if v == nil {
		t.Fatal("terminal state must resolve a variant")
	}
	if v.Price != 120 {
		t.Fatalf("variant without override should fall back to base price: got %v", v.Price)
	}
	if v.LowStock {
		t.Fatalf("stock %d should not read as low", v.Stock)
	}
}

func TestEvaluateUnknownSelections(t *testing.T) {
	fx := newSelectionFixture(t)
	ctx := context.Background()
	unknown := int64(9999)

	if _, err := fx.uc.Evaluate(ctx, &dto.EvaluateInput{ProductID: unknown}); !common.IsCode(err, common.ErrCodeNotFound) {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
	if _, err := fx.uc.Evaluate(ctx, &dto.EvaluateInput{ProductID: fx.productID, ColorID: &unknown}); !common.IsCode(err, common.ErrCodeNotFound) {
		t.Fatalf("expected not found for unknown color, got %v", err)
	}
	if _, err := fx.uc.Evaluate(ctx, &dto.EvaluateInput{ProductID: fx.productID, ColorID: &fx.whiteID, SizeID: &fx.size10ID}); !common.IsCode(err, common.ErrCodeNotFound) {
		t.Fatalf("expected not found for size missing on the color, got %v", err)
	}
}
