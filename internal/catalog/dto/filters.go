package dto

// ProductFilters narrows the shopper-facing product listing. ColorIDs and
// SizeIDs are conjunctive on the variant: with both present, a product
// qualifies only if a single active in-stock variant matches a requested
// color AND a requested size.
type ProductFilters struct {
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	ColorIDs   []int64
	SizeIDs    []int64
	IsActive   *bool
	SortBy     string // name, price, created_at
	SortOrder  string // asc, desc
	Page       int
	PageSize   int
}
