package listener

import (
	"context"
	"strconv"
	"testing"

	catalogrepo "github.com/stridewear/catalog-service/internal/catalog/repository"
	"github.com/stridewear/catalog-service/internal/ledger"
	ledgerrepo "github.com/stridewear/catalog-service/internal/ledger/repository"
	"github.com/stridewear/catalog-service/internal/ledger/usecase"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

func newListenerFixture(t *testing.T) (*LedgerListener, ledger.UseCase, int64) {
	t.Helper()
	ctx := context.Background()

	catRepo := catalogrepo.NewMemoryRepository()
	ledRepo := ledgerrepo.NewMemoryRepository()
	catRepo.SetStockFn(ledRepo.Sum)

	p := &model.Product{Name: "Runner X", BasePrice: 120, IsActive: true}
	if err := catRepo.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct returned error: %v", err)
	}
	c := &model.Color{Name: "black"}
	if err := catRepo.CreateColor(ctx, c); err != nil {
		t.Fatalf("CreateColor returned error: %v", err)
	}
	s := &model.Size{Value: "9", SortOrder: 9}
	if err := catRepo.CreateSize(ctx, s); err != nil {
		t.Fatalf("CreateSize returned error: %v", err)
	}
	v := &model.Variant{ProductID: p.ID, ColorID: c.ID, SizeID: s.ID, SKU: "RX-BLK-9", IsActive: true}
	if err := catRepo.CreateVariant(ctx, v); err != nil {
		t.Fatalf("CreateVariant returned error: %v", err)
	}
	if err := ledRepo.AppendEntry(ctx, &model.StockEntry{
		VariantID: v.ID, Quantity: 10, Kind: model.EntryKindImport,
	}); err != nil {
		t.Fatalf("AppendEntry returned error: %v", err)
	}

	uc := usecase.NewLedgerUseCase(ledRepo, catRepo, nil, logger.NewNop())
	return NewLedgerListener(nil, uc, logger.NewNop()), uc, v.ID
}

func TestProcessMessageAppliesDecrements(t *testing.T) {
	l, uc, variantID := newListenerFixture(t)
	ctx := context.Background()

	payload := []byte(`{
		"event_id": "evt-1",
		"event_type": "OrderFulfilled",
		"payload": {
			"id": "order-42",
			"items": [
				{"variant_id": ` + itoa(variantID) + `, "quantity": 2},
				{"variant_id": ` + itoa(variantID) + `, "quantity": 1}
			]
		}
	}`)
	l.processMessage(ctx, payload)

	stock, err := uc.CurrentStock(ctx, variantID)
	if err != nil {
		t.Fatalf("CurrentStock returned error: %v", err)
	}
	if stock != 7 {
		t.Fatalf("stock after fulfillment = %d, want 7", stock)
	}
}

func TestProcessMessageIgnoresOtherEventTypes(t *testing.T) {
	l, uc, variantID := newListenerFixture(t)
	ctx := context.Background()

	l.processMessage(ctx, []byte(`{
		"event_id": "evt-2",
		"event_type": "OrderCancelled",
		"payload": {"id": "order-43", "items": [{"variant_id": `+itoa(variantID)+`, "quantity": 5}]}
	}`))

	stock, err := uc.CurrentStock(ctx, variantID)
	if err != nil {
		t.Fatalf("CurrentStock returned error: %v", err)
	}
	if stock != 10 {
		t.Fatalf("unrelated event touched the ledger: stock = %d", stock)
	}
}

func TestProcessMessageToleratesMalformedPayloads(t *testing.T) {
	l, uc, variantID := newListenerFixture(t)
	ctx := context.Background()

	l.processMessage(ctx, []byte(`not json`))
	l.processMessage(ctx, []byte(`{}`))

	stock, err := uc.CurrentStock(ctx, variantID)
	if err != nil {
		t.Fatalf("CurrentStock returned error: %v", err)
	}
	if stock != 10 {
		t.Fatalf("malformed payload touched the ledger: stock = %d", stock)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
