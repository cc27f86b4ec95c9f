package dto

type RecordImportInput struct {
	VariantID  int64
	Quantity   int64
	UnitCost   float64 // 0 means unknown
	OperatorID int64
}

type RecordAdjustmentInput struct {
	VariantID  int64
	Quantity   int64 // signed, never zero
	Reason     string
	OperatorID int64
}

// ApplyFulfillmentInput is a decrement fed by the order subsystem, one per
// fulfilled line item.
type ApplyFulfillmentInput struct {
	VariantID int64
	Quantity  int64 // units sold, positive
	OrderRef  string
}

type EntryFilters struct {
	VariantID int64
	Kind      string
	Page      int
	PageSize  int
}
