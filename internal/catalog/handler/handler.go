package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/catalog"
	"github.com/stridewear/catalog-service/internal/catalog/dto"
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.Logger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

type createProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" binding:"required"`
	CategoryID  int64   `json:"category_id"`
}

type updateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" binding:"required"`
	CategoryID  int64   `json:"category_id"`
	IsActive    bool    `json:"is_active"`
}

type upsertVariantRequest struct {
	ProductID int64    `json:"product_id" binding:"required"`
	ColorID   int64    `json:"color_id" binding:"required"`
	SizeID    int64    `json:"size_id" binding:"required"`
	SKU       string   `json:"sku" binding:"required"`
	Price     *float64 `json:"price"`
	IsActive  *bool    `json:"is_active"`
}

type setVariantActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type createColorRequest struct {
	Name    string `json:"name" binding:"required"`
	HexCode string `json:"hex_code"`
}

type createSizeRequest struct {
	Value     string `json:"value" binding:"required"`
	System    string `json:"system"`
	SortOrder int    `json:"sort_order"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if err := h.uc.DeleteProduct(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) UpsertVariant(c *gin.Context) {
	var req upsertVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	v, err := h.uc.UpsertVariant(c.Request.Context(), &dto.UpsertVariantInput{
		ProductID: req.ProductID,
		ColorID:   req.ColorID,
		SizeID:    req.SizeID,
		SKU:       req.SKU,
		Price:     req.Price,
		IsActive:  isActive,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}

func (h *CatalogHandler) ListVariants(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	variants, err := h.uc.FindVariants(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

func (h *CatalogHandler) SetVariantActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req setVariantActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	if err := h.uc.SetVariantActive(c.Request.Context(), id, *req.IsActive); err != nil {
		common.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListColors(c *gin.Context) {
	colors, err := h.uc.ListColors(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"colors": colors})
}

func (h *CatalogHandler) ListSizes(c *gin.Context) {
	sizes, err := h.uc.ListSizes(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sizes": sizes})
}

func (h *CatalogHandler) CreateColor(c *gin.Context) {
	var req createColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	color, err := h.uc.CreateColor(c.Request.Context(), &dto.CreateColorInput{
		Name:    req.Name,
		HexCode: req.HexCode,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, color)
}

func (h *CatalogHandler) CreateSize(c *gin.Context) {
	var req createSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError(err.Error()))
		return
	}

	size, err := h.uc.CreateSize(c.Request.Context(), &dto.CreateSizeInput{
		Value:     req.Value,
		System:    req.System,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, size)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("invalid id",
			common.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return id, nil
}
