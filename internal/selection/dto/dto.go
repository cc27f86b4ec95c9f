package dto

import "github.com/stridewear/catalog-service/internal/model"

// Selection states. Changing color drops any size choice, so the only path
// to the terminal state runs through a color.
const (
	StateNoColorSelected      = "no_color_selected"
	StateColorSelected        = "color_selected"
	StateColorAndSizeSelected = "color_and_size_selected"
)

type EvaluateInput struct {
	ProductID int64
	ColorID   *int64
	SizeID    *int64
}

// SizeOption is a size of the selected color. Out-of-stock sizes stay
// visible but not selectable.
type SizeOption struct {
	Size       model.Size `json:"size"`
	Stock      int64      `json:"stock"`
	Selectable bool       `json:"selectable"`
}

// ResolvedVariant is the terminal-state payload: the exact sellable unit the
// shopper picked, with a fresh stock read.
type ResolvedVariant struct {
	VariantID int64   `json:"variant_id"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Stock     int64   `json:"stock"`
	LowStock  bool    `json:"low_stock"`
}

type Result struct {
	State   string           `json:"state"`
	Colors  []model.Color    `json:"colors"`
	Sizes   []SizeOption     `json:"sizes,omitempty"`
	Variant *ResolvedVariant `json:"variant,omitempty"`
}
