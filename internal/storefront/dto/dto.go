package dto

import (
	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/model"
)

type ProductSummary struct {
	model.Product
	InStock bool `json:"in_stock"`
}

type ProductList struct {
	Items      []ProductSummary  `json:"items"`
	Pagination common.Pagination `json:"pagination"`
}

type ProductDetail struct {
	Product  model.Product         `json:"product"`
	Variants []model.VariantDetail `json:"variants"`
	InStock  bool                  `json:"in_stock"`
}
