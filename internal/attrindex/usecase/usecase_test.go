package usecase

import (
	"context"
	"testing"

	"github.com/stridewear/catalog-service/internal/attrindex"
	catalogrepo "github.com/stridewear/catalog-service/internal/catalog/repository"
	"github.com/stridewear/catalog-service/internal/common"
	ledgerrepo "github.com/stridewear/catalog-service/internal/ledger/repository"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

// indexFixture seeds a product with three variants:
//
//	black / 9  → stock 3
//	black / 10 → stock 0
//	white / 9  → stock 5
type indexFixture struct {
	uc        attrindex.UseCase
	productID int64
	blackID   int64
	whiteID   int64
	size9ID   int64
	size10ID  int64
}

func newIndexFixture(t *testing.T) *indexFixture {
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

	seed := []struct {
		color *model.Color
		size  *model.Size
		sku   string
		stock int64
	}{
		{black, size9, "RX-BLK-9", 3},
		{black, size10, "RX-BLK-10", 0},
		{white, size9, "RX-WHT-9", 5},
	}
	for _, sv := range seed {
		v := &model.Variant{ProductID: p.ID, ColorID: sv.color.ID, SizeID: sv.size.ID, SKU: sv.sku, IsActive: true}
		if err := catRepo.CreateVariant(ctx, v); err != nil {
			t.Fatalf("CreateVariant returned error: %v", err)
		}
		if sv.stock > 0 {
			if err := ledRepo.AppendEntry(ctx, &model.StockEntry{
				VariantID: v.ID, Quantity: sv.stock, Kind: model.EntryKindImport,
			}); err != nil {
				t.Fatalf("AppendEntry returned error: %v", err)
			}
		}
	}

	return &indexFixture{
		uc:        NewAttrIndexUseCase(catRepo, nil, logger.NewNop()),
		productID: p.ID,
		blackID:   black.ID,
		whiteID:   white.ID,
		size9ID:   size9.ID,
		size10ID:  size10.ID,
	}
}

func TestColorsForListsColorsRegardlessOfStock(t *testing.T) {
	fx := newIndexFixture(t)

	colors, err := fx.uc.ColorsFor(context.Background(), fx.productID)
	if err != nil {
		t.Fatalf("ColorsFor returned error: %v", err)
	}
	if len(colors) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(colors))
	}
	// Sorted by name: black before white. Black appears even though one of
	// its sizes has zero stock.
	if colors[0].Name != "black" || colors[1].Name != "white" {
		t.Fatalf("unexpected color order: %q, %q", colors[0].Name, colors[1].Name)
	}
}

func TestSizesForCarriesStockAndOrder(t *testing.T) {
	fx := newIndexFixture(t)

	sizes, err := fx.uc.SizesFor(context.Background(), fx.productID, fx.blackID)
	if err != nil {
		t.Fatalf("SizesFor returned error: %v", err)
	}
	if len(sizes) != 2 {
		t.Fatalf("expected 2 sizes for black, got %d", len(sizes))
	}
	if sizes[0].Size.Value != "9" || sizes[0].Stock != 3 {
		t.Fatalf("unexpected first size: %+v", sizes[0])
	}
	// The zero-stock size is listed, not hidden.
	if sizes[1].Size.Value != "10" || sizes[1].Stock != 0 {
		t.Fatalf("unexpected second size: %+v", sizes[1])
	}

	sizes, err = fx.uc.SizesFor(context.Background(), fx.productID, fx.whiteID)
	if err != nil {
		t.Fatalf("SizesFor returned error: %v", err)
	}
	if len(sizes) != 1 || sizes[0].Size.Value != "9" || sizes[0].Stock != 5 {
		t.Fatalf("unexpected white sizes: %+v", sizes)
	}
}

func TestHasAnyStock(t *testing.T) {
	fx := newIndexFixture(t)

	ok, err := fx.uc.HasAnyStock(context.Background(), fx.productID)
	if err != nil {
		t.Fatalf("HasAnyStock returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected product with stocked variants to report stock")
	}
}

func TestAttrIndexUnknownProduct(t *testing.T) {
	fx := newIndexFixture(t)
	ctx := context.Background()

	if _, err := fx.uc.ColorsFor(ctx, 9999); !common.IsCode(err, common.ErrCodeNotFound) {
		t.Fatalf("expected not found from ColorsFor, got %v", err)
	}
	if _, err := fx.uc.SizesFor(ctx, 9999, fx.blackID); !common.IsCode(err, common.ErrCodeNotFound) {
		t.Fatalf("expected not found from SizesFor, got %v", err)
	}
}

func TestAttrIndexDerivationIsIdempotent(t *testing.T) {
	fx := newIndexFixture(t)
	ctx := context.Background()

	first, err := fx.uc.SizesFor(ctx, fx.productID, fx.blackID)
	if err != nil {
		t.Fatalf("SizesFor returned error: %v", err)
	}
	second, err := fx.uc.SizesFor(ctx, fx.productID, fx.blackID)
	if err != nil {
		t.Fatalf("SizesFor returned error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("derivation not stable: %d vs %d sizes", len(first), len(second))
	}
	for i := range first {
		if first[i].Size.ID != second[i].Size.ID || first[i].Stock != second[i].Stock {
			t.Fatalf("derivation not stable at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
