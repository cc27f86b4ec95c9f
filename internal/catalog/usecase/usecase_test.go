package usecase

import (
	"context"
	"testing"

	"github.com/stridewear/catalog-service/internal/catalog"
	"github.com/stridewear/catalog-service/internal/catalog/dto"
	catalogrepo "github.com/stridewear/catalog-service/internal/catalog/repository"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

type catalogFixture struct {
	uc        catalog.UseCase
	repo      *catalogrepo.MemoryRepository
	productID int64
	colorID   int64
	sizeID    int64
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	ctx := context.Background()

	repo := catalogrepo.NewMemoryRepository()
	uc := NewCatalogUseCase(repo, nil, nil, logger.NewNop())

	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Runner X", BasePrice: 120})
	if err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	c, err := uc.CreateColor(ctx, &dto.CreateColorInput{Name: "black", HexCode: "#000000"})
	if err != nil {
		t.Fatalf("CreateColor returned error: %v", err)
	}
	s, err := uc.CreateSize(ctx, &dto.CreateSizeInput{Value: "9", System: "US", SortOrder: 9})
	if err != nil {
		t.Fatalf("CreateSize returned error: %v", err)
	}

	return &catalogFixture{uc: uc, repo: repo, productID: p.ID, colorID: c.ID, sizeID: s.ID}
}

func TestCreateProductValidation(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input dto.CreateProductInput
	}{
		{"empty name", dto.CreateProductInput{BasePrice: 10}},
		{"negative base price", dto.CreateProductInput{Name: "Runner Y", BasePrice: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.uc.CreateProduct(ctx, &tc.input)
			if !common.IsCode(err, common.ErrCodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpsertVariantRejectsDuplicateActiveTriple(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	first, err := fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9", IsActive: true,
	})
	if err != nil {
		t.Fatalf("first upsert returned error: %v", err)
	}

	// An inactive upsert on an occupied triple is a conflict, not a reprice
	// and not an inactive sibling.
	_, err = fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9-B", IsActive: false,
	})
	if !common.IsCode(err, common.ErrCodeDuplicateVariant) {
		t.Fatalf("expected duplicate variant error, got %v", err)
	}

	// The occupied triple still resolves to the original, untouched.
	existing, err := fx.repo.FindActiveTriple(ctx, fx.productID, fx.colorID, fx.sizeID)
	if err != nil {
		t.Fatalf("FindActiveTriple returned error: %v", err)
	}
	if existing == nil || existing.ID != first.ID || existing.SKU != "RX-BLK-9" {
		t.Fatalf("occupied triple changed by refused upsert: %+v", existing)
	}
}

func TestUpsertVariantRepricesOccupiedTriple(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	v, err := fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9", IsActive: true,
	})
	if err != nil {
		t.Fatalf("first upsert returned error: %v", err)
	}

	price := 135.0
	repriced, err := fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9", Price: &price, IsActive: true,
	})
	if err != nil {
		t.Fatalf("repricing upsert returned error: %v", err)
	}
	if repriced.ID != v.ID {
		t.Fatalf("repricing created a new variant: got id %d want %d", repriced.ID, v.ID)
	}
	if repriced.Price == nil || *repriced.Price != price {
		t.Fatalf("price override not applied: %+v", repriced.Price)
	}
	if repriced.EffectivePrice(120) != price {
		t.Fatalf("effective price mismatch: got %v want %v", repriced.EffectivePrice(120), price)
	}
}

func TestUpsertVariantUnknownReferences(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input dto.UpsertVariantInput
	}{
		{"unknown product", dto.UpsertVariantInput{ProductID: 9999, ColorID: fx.colorID, SizeID: fx.sizeID, SKU: "X", IsActive: true}},
		{"unknown color", dto.UpsertVariantInput{ProductID: fx.productID, ColorID: 9999, SizeID: fx.sizeID, SKU: "X", IsActive: true}},
		{"unknown size", dto.UpsertVariantInput{ProductID: fx.productID, ColorID: fx.colorID, SizeID: 9999, SKU: "X", IsActive: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.uc.UpsertVariant(ctx, &tc.input)
			if !common.IsCode(err, common.ErrCodeNotFound) {
				t.Fatalf("expected not found error, got %v", err)
			}
		})
	}
}

func TestSetVariantActiveReactivationConflict(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	first, err := fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9", IsActive: true,
	})
	if err != nil {
		t.Fatalf("first upsert returned error: %v", err)
	}
	if err := fx.uc.SetVariantActive(ctx, first.ID, false); err != nil {
		t.Fatalf("deactivate returned error: %v", err)
	}

	// The freed triple can be taken by a replacement variant.
	second, err := fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9-V2", IsActive: true,
	})
	if err != nil {
		t.Fatalf("replacement upsert returned error: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("replacement should be a distinct variant")
	}

	// Re-activating the retired one would put two active variants on the
	// same triple.
	err = fx.uc.SetVariantActive(ctx, first.ID, true)
	if !common.IsCode(err, common.ErrCodeDuplicateVariant) {
		t.Fatalf("expected duplicate variant error on re-activation, got %v", err)
	}
}

func TestDeleteProductDeactivatesVariants(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	v, err := fx.uc.UpsertVariant(ctx, &dto.UpsertVariantInput{
		ProductID: fx.productID, ColorID: fx.colorID, SizeID: fx.sizeID,
		SKU: "RX-BLK-9", IsActive: true,
	})
	if err != nil {
		t.Fatalf("upsert returned error: %v", err)
	}

	if err := fx.uc.DeleteProduct(ctx, fx.productID); err != nil {
		t.Fatalf("DeleteProduct returned error: %v", err)
	}

	p, err := fx.repo.FindProductByID(ctx, fx.productID)
	if err != nil {
		t.Fatalf("FindProductByID returned error: %v", err)
	}
	if p == nil || p.IsActive {
		t.Fatalf("product should survive as inactive, got %+v", p)
	}

	got, err := fx.repo.FindVariantByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("FindVariantByID returned error: %v", err)
	}
	if got == nil || got.IsActive {
		t.Fatalf("variant should be deactivated with its product, got %+v", got)
	}
}

func TestDeleteProductUnknown(t *testing.T) {
	fx := newCatalogFixture(t)

	err := fx.uc.DeleteProduct(context.Background(), 9999)
	if !common.IsCode(err, common.ErrCodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
