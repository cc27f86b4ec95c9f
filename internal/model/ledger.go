package model

import "time"

// Stock entry kinds. Imports are operator stock-in events and must be
// positive; adjustments are signed corrections; fulfillments are negative
// decrements appended by the order-events listener.
const (
	EntryKindImport      = "import"
	EntryKindAdjustment  = "adjustment"
	EntryKindFulfillment = "fulfillment"
)

// StockEntry is one immutable row of the append-only stock ledger. There is
// no update or delete path; corrections are reversing entries.
type StockEntry struct {
	ID         int64     `db:"id" json:"id"`
	VariantID  int64     `db:"variant_id" json:"variant_id"`
	Quantity   int64     `db:"quantity" json:"quantity"`
	UnitCost   *float64  `db:"unit_cost" json:"unit_cost"`
	Kind       string    `db:"kind" json:"kind"`
	Reference  *string   `db:"reference" json:"reference"` // e.g. order id for fulfillments
	OperatorID *int64    `db:"operator_id" json:"operator_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
