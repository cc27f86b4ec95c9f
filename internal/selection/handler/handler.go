package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/platform/logger"
	"github.com/stridewear/catalog-service/internal/selection"
	"github.com/stridewear/catalog-service/internal/selection/dto"
)

type SelectionHandler struct {
	uc     selection.UseCase
	logger logger.Logger
}

func NewSelectionHandler(uc selection.UseCase, log logger.Logger) *SelectionHandler {
	return &SelectionHandler{
		uc:     uc,
		logger: log,
	}
}

// Evaluate serves GET /products/:id/selection?color_id=&size_id=. Absent
// params mean "not chosen yet"; the response tells the client which next
// choices are legal.
func (h *SelectionHandler) Evaluate(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		common.RespondError(c, common.NewValidationError("invalid id",
			common.FieldError{Field: "id", Message: "must be a positive integer"}))
		return
	}

	input := &dto.EvaluateInput{ProductID: productID}

	if raw := c.Query("color_id"); raw != "" {
		colorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || colorID <= 0 {
			common.RespondError(c, common.NewValidationError("invalid color id",
				common.FieldError{Field: "color_id", Message: "must be a positive integer"}))
			return
		}
		input.ColorID = &colorID
	}
	if raw := c.Query("size_id"); raw != "" {
		sizeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || sizeID <= 0 {
			common.RespondError(c, common.NewValidationError("invalid size id",
				common.FieldError{Field: "size_id", Message: "must be a positive integer"}))
			return
		}
		input.SizeID = &sizeID
	}

	result, err := h.uc.Evaluate(c.Request.Context(), input)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
