package entities

import "github.com/shopspring/decimal"

// UnreturnedItem is one custody record contributing to a deduction.
//
// Flagged marks a record whose stored quantities yield a negative unreturned
// quantity; such records are clamped to zero and never produce a credit.
type UnreturnedItem struct {
	CustodyRecordID    string          `json:"custody_record_id"`
	ItemName           string          `json:"item_name"`
	ItemKind           ItemKind        `json:"item_kind"`
	UnreturnedQuantity int64           `json:"unreturned_quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	LineValue          decimal.Decimal `json:"line_value"`
	Flagged            bool            `json:"flagged,omitempty"`
}

// DeductionReport is the monetary value of what a worker still holds.
//
// CustodyVersions records the version of every record read, so a payment
// request can assert that nothing changed between snapshot and write.
type DeductionReport struct {
	WorkerID           string           `json:"worker_id"`
	MaterialDeductions decimal.Decimal  `json:"material_deductions"`
	ToolDeductions     decimal.Decimal  `json:"tool_deductions"`
	TotalDeductions    decimal.Decimal  `json:"total_deductions"`
	UnreturnedItems    []UnreturnedItem `json:"unreturned_items"`
	FlaggedRecordIDs   []string         `json:"flagged_record_ids,omitempty"`
	CustodyVersions    map[string]int64 `json:"-"`
}

// PayoutCeiling is the most a worker may request right now.
type PayoutCeiling struct {
	WorkerID        string          `json:"worker_id"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	PaidOut         decimal.Decimal `json:"paid_out"`
	Reserved        decimal.Decimal `json:"reserved"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	Ceiling         decimal.Decimal `json:"ceiling"`
}
