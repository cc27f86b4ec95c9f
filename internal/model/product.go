package model

type Product struct {
	BaseModel
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	BasePrice   float64   `db:"base_price" json:"base_price"`
	CategoryID  *int64    `db:"category_id" json:"category_id"` // Nullable
	IsActive    bool      `db:"is_active" json:"is_active"`
	Variants    []Variant `db:"-" json:"variants,omitempty"` // Joined data, not a column
}

type Color struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	HexCode *string `db:"hex_code" json:"hex_code"`
}

type Size struct {
	ID        int64  `db:"id" json:"id"`
	Value     string `db:"value" json:"value"`
	System    string `db:"system" json:"system"` // e.g. US, EU
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// Variant is a sellable (product, color, size) combination. Stock is always
// the ledger projection attached at read time; there is no stock column to
// mutate in place.
type Variant struct {
	BaseModel
	ProductID int64    `db:"product_id" json:"product_id"`
	ColorID   int64    `db:"color_id" json:"color_id"`
	SizeID    int64    `db:"size_id" json:"size_id"`
	SKU       string   `db:"sku" json:"sku"`
	Price     *float64 `db:"price" json:"price"` // Overrides product base price when set
	IsActive  bool     `db:"is_active" json:"is_active"`
	Stock     int64    `db:"stock" json:"stock"`
}

// VariantDetail is the read model for product-detail responses, with color
// and size attributes joined in.
type VariantDetail struct {
	Variant
	ColorName     string  `db:"color_name" json:"color_name"`
	ColorHex      *string `db:"color_hex" json:"color_hex"`
	SizeValue     string  `db:"size_value" json:"size_value"`
	SizeSystem    string  `db:"size_system" json:"size_system"`
	SizeSortOrder int     `db:"size_sort_order" json:"-"`
}

// EffectivePrice is the variant price when set, the product base price
// otherwise.
func (v *Variant) EffectivePrice(basePrice float64) float64 {
	if v.Price != nil {
		return *v.Price
	}
	return basePrice
}
