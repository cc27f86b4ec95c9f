package dto

type CreateProductInput struct {
	Name        string
	Description string
	BasePrice   float64
	CategoryID  int64 // 0 means uncategorized
}

type UpdateProductInput struct {
	ID          int64
	Name        string
	Description string
	BasePrice   float64
	CategoryID  int64
	IsActive    bool
}

type UpsertVariantInput struct {
	ProductID int64
	ColorID   int64
	SizeID    int64
	SKU       string
	Price     *float64 // nil falls back to the product base price
	IsActive  bool
}

type CreateColorInput struct {
	Name    string
	HexCode string
}

type CreateSizeInput struct {
	Value     string
	System    string
	SortOrder int
}
