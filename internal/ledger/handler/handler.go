package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/auth"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/ledger"
	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger logger.Logger
}

func NewLedgerHandler(uc ledger.UseCase, log logger.Logger) *LedgerHandler {
	return &LedgerHandler{
		uc:     uc,
		logger: log,
	}
}

type recordImportRequest struct {
	VariantID int64   `json:"variant_id" binding:"required"`
	Quantity  int64   `json:"quantity" binding:"required"`
	UnitCost  float64 `json:"unit_cost"`
}

type recordAdjustmentRequest struct {
	VariantID int64  `json:"variant_id" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

func (h *LedgerHandler) RecordImport(c *gin.Context) {
	op, ok := auth.GetOperator(c)
	if !ok {
		common.RespondError(c, common.NewAuthorizationError("operator identity missing"))
		return
	}

	var req recordImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	entry, err := h.uc.RecordImport(c.Request.Context(), &dto.RecordImportInput{
		VariantID:  req.VariantID,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		OperatorID: op.UserID,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) RecordAdjustment(c *gin.Context) {
	op, ok := auth.GetOperator(c)
	if !ok {
		common.RespondError(c, common.NewAuthorizationError("operator identity missing"))
		return
	}

	var req recordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	entry, err := h.uc.RecordAdjustment(c.Request.Context(), &dto.RecordAdjustmentInput{
		VariantID:  req.VariantID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		OperatorID: op.UserID,
	})
	if err != nil {
		if common.IsCode(err, common.ErrCodeStockIntegrity) {
			h.logger.Error("stock integrity fault on adjustment", zap.Error(err))
		}
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) ListEntries(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || variantID <= 0 {
		common.RespondError(c, common.NewValidationError("invalid id",
			common.FieldError{Field: "id", Message: "must be a positive integer"}))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	entries, count, err := h.uc.ListEntries(c.Request.Context(), &dto.EntryFilters{
		VariantID: variantID,
		Kind:      c.Query("kind"),
		Page:      page,
		PageSize:  limit,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":    entries,
		"pagination": common.NewPagination(page, limit, count),
	})
}

func (h *LedgerHandler) CurrentStock(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || variantID <= 0 {
		common.RespondError(c, common.NewValidationError("invalid id",
			common.FieldError{Field: "id", Message: "must be a positive integer"}))
		return
	}

	stock, err := h.uc.CurrentStock(c.Request.Context(), variantID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant_id": variantID, "stock": stock})
}
