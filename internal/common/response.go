package common

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON envelope for failures.
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// Pagination is the metadata block attached to every paged listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination computes the metadata from the filtered total, not the raw
// catalog size.
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

// RespondError maps a usecase error onto its HTTP status. Errors pass through
// unmodified; only unknown errors are masked as internal.
func RespondError(c *gin.Context, err error) {
	appErr := AsError(err)
	c.JSON(appErr.Status, ErrorResponse{Error: appErr})
}
