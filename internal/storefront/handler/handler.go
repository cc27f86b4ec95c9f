package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/platform/logger"
	"github.com/stridewear/catalog-service/internal/storefront"
	"github.com/stridewear/catalog-service/internal/storefront/dto"
)

type StorefrontHandler struct {
	uc     storefront.UseCase
	logger logger.Logger
}

func NewStorefrontHandler(uc storefront.UseCase, log logger.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	var q dto.ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	result, err := h.uc.ListProducts(c.Request.Context(), &q)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		common.RespondError(c, common.NewValidationError("invalid id",
			common.FieldError{Field: "id", Message: "must be a positive integer"}))
		return
	}

	detail, err := h.uc.GetProductDetail(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
