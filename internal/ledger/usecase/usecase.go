package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/catalog"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/ledger"
	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/model"
	"github.com/stridewear/catalog-service/internal/platform/cache"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

type ledgerUseCase struct {
	repo     ledger.Repository
	variants catalog.Repository
	cache    *cache.RedisClient
	logger   logger.Logger
}

func NewLedgerUseCase(repo ledger.Repository, variants catalog.Repository, cache *cache.RedisClient, log logger.Logger) ledger.UseCase {
	return &ledgerUseCase{
		repo:     repo,
		variants: variants,
		cache:    cache,
		logger:   log,
	}
}

func (uc *ledgerUseCase) RecordImport(ctx context.Context, input *dto.RecordImportInput) (*model.StockEntry, error) {
	if input.Quantity <= 0 {
		return nil, common.NewValidationError("invalid import",
			common.FieldError{Field: "quantity", Message: "quantity must be a positive integer"})
	}

	v, err := uc.variants.FindVariantByID(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, common.NewNotFoundError("variant not found")
	}

	unlock, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var unitCost *float64
	if input.UnitCost > 0 {
		cost := input.UnitCost
		unitCost = &cost
	}
	operatorID := input.OperatorID

	entry := &model.StockEntry{
		VariantID:  input.VariantID,
		Quantity:   input.Quantity,
		UnitCost:   unitCost,
		Kind:       model.EntryKindImport,
		OperatorID: &operatorID,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}

	go uc.invalidateStockCaches(context.Background(), v.ProductID)

	return entry, nil
}

func (uc *ledgerUseCase) RecordAdjustment(ctx context.Context, input *dto.RecordAdjustmentInput) (*model.StockEntry, error) {
	if input.Quantity == 0 {
		return nil, common.NewValidationError("invalid adjustment",
			common.FieldError{Field: "quantity", Message: "quantity must not be zero"})
	}
	if input.Reason == "" {
		return nil, common.NewValidationError("invalid adjustment",
			common.FieldError{Field: "reason", Message: "reason is required"})
	}

	v, err := uc.variants.FindVariantByID(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, common.NewNotFoundError("variant not found")
	}

	unlock, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if input.Quantity < 0 {
		sum, err := uc.repo.SumEntries(ctx, input.VariantID)
		if err != nil {
			return nil, err
		}
		if sum+input.Quantity < 0 {
			return nil, common.NewStockIntegrityFault(
				fmt.Sprintf("adjustment of %d would drive variant %d stock below zero (current %d)",
					input.Quantity, input.VariantID, sum))
		}
	}

	reason := input.Reason
	operatorID := input.OperatorID
	entry := &model.StockEntry{
		VariantID:  input.VariantID,
		Quantity:   input.Quantity,
		Kind:       model.EntryKindAdjustment,
		Reference:  &reason,
		OperatorID: &operatorID,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}

	go uc.invalidateStockCaches(context.Background(), v.ProductID)

	return entry, nil
}

// ApplyFulfillment appends the decrement for a sold unit batch. The append
// always lands so the audit trail matches what the order subsystem shipped;
// an oversell is then reported as a fault, never hidden by refusing the row.
func (uc *ledgerUseCase) ApplyFulfillment(ctx context.Context, input *dto.ApplyFulfillmentInput) (*model.StockEntry, error) {
	if input.Quantity <= 0 {
		return nil, common.NewValidationError("invalid fulfillment",
			common.FieldError{Field: "quantity", Message: "quantity must be a positive integer"})
	}

	v, err := uc.variants.FindVariantByID(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, common.NewNotFoundError("variant not found")
	}

	unlock, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var reference *string
	if input.OrderRef != "" {
		ref := input.OrderRef
		reference = &ref
	}
	entry := &model.StockEntry{
		VariantID: input.VariantID,
		Quantity:  -input.Quantity,
		Kind:      model.EntryKindFulfillment,
		Reference: reference,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}

	go uc.invalidateStockCaches(context.Background(), v.ProductID)

	sum, err := uc.repo.SumEntries(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	if sum < 0 {
		fault := common.NewStockIntegrityFault(
			fmt.Sprintf("variant %d oversold: ledger sum is %d after order %q", input.VariantID, sum, input.OrderRef))
		uc.logger.Error("stock integrity fault",
			zap.Int64("variant_id", input.VariantID),
			zap.Int64("ledger_sum", sum),
			zap.String("order_ref", input.OrderRef))
		return entry, fault
	}

	return entry, nil
}

func (uc *ledgerUseCase) CurrentStock(ctx context.Context, variantID int64) (int64, error) {
	v, err := uc.variants.FindVariantByID(ctx, variantID)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, common.NewNotFoundError("variant not found")
	}

	sum, err := uc.repo.SumEntries(ctx, variantID)
	if err != nil {
		return 0, err
	}
	if sum < 0 {
		uc.logger.Error("stock integrity fault",
			zap.Int64("variant_id", variantID),
			zap.Int64("ledger_sum", sum))
		return 0, common.NewStockIntegrityFault(
			fmt.Sprintf("variant %d has negative derived stock %d", variantID, sum))
	}
	return sum, nil
}

func (uc *ledgerUseCase) ListEntries(ctx context.Context, f *dto.EntryFilters) ([]model.StockEntry, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	if f.VariantID != 0 {
		v, err := uc.variants.FindVariantByID(ctx, f.VariantID)
		if err != nil {
			return nil, 0, err
		}
		if v == nil {
			return nil, 0, common.NewNotFoundError("variant not found")
		}
	}
	return uc.repo.ListEntries(ctx, f)
}

// lockVariant serializes same-variant appends. The append-only log is already
// safe under concurrent writers; the lock keeps the oversell check and its
// append from interleaving.
func (uc *ledgerUseCase) lockVariant(ctx context.Context, variantID int64) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	lockKey := fmt.Sprintf("lock:ledger:%d", variantID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire ledger lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, common.NewValidationError("variant is busy, please retry")
	}

	return func() {
		if err := uc.cache.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Error("failed to release ledger lock", zap.Error(err))
		}
	}, nil
}

// invalidateStockCaches drops every derived read that embeds a stock count
// for the product.
func (uc *ledgerUseCase) invalidateStockCaches(ctx context.Context, productID int64) {
	if uc.cache == nil {
		return
	}
	patterns := []string{
		fmt.Sprintf("attrindex:%d:*", productID),
		"products:list:*",
	}
	for _, pattern := range patterns {
		if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
			uc.logger.Error("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
