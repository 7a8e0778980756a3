package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind classifies what was issued to a worker.
type ItemKind string

const (
	ItemKindMaterial ItemKind = "material"
	ItemKindTool     ItemKind = "tool"
	ItemKindSupply   ItemKind = "supply"
)

func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindMaterial, ItemKindTool, ItemKindSupply:
		return true
	}
	return false
}

// Consumable reports whether unreturned units are charged as material deductions.
// Tools are charged as tool deductions.
func (k ItemKind) Consumable() bool {
	return k == ItemKindMaterial || k == ItemKindSupply
}

// CustodyRecord is what a worker currently holds of one issued item.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (worker_id-index): worker_id
//
// Quantities:
//   - QuantityAssigned is the issued amount and never changes.
//   - ConsumedTotal is the sum of the record's ConsumptionRecords.
//   - QuantityRemaining is cached as Assigned - Consumed - Returned and is
//     rewritten by the same conditional write that changes Consumed or Returned.
//   - Version is bumped by every write and guards optimistic updates.
type CustodyRecord struct {
	ID                string          `json:"id"`
	WorkerID          string          `json:"worker_id"`
	ItemName          string          `json:"item_name"`
	ItemKind          ItemKind        `json:"item_kind"`
	QuantityAssigned  int64           `json:"quantity_assigned"`
	QuantityReturned  int64           `json:"quantity_returned"`
	ConsumedTotal     int64           `json:"consumed_total"`
	QuantityRemaining int64           `json:"quantity_remaining"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Balance is the remaining quantity derived from the contributing fields.
func (r CustodyRecord) Balance() int64 {
	return r.QuantityAssigned - r.ConsumedTotal - r.QuantityReturned
}

// IsFullyReturned reports whether nothing is left outstanding on the record.
func (r CustodyRecord) IsFullyReturned() bool {
	return r.ConsumedTotal+r.QuantityReturned >= r.QuantityAssigned
}

// CheckIntegrity validates the stored quantities against each other.
func (r CustodyRecord) CheckIntegrity() error {
	if r.QuantityAssigned < 0 || r.QuantityReturned < 0 || r.ConsumedTotal < 0 {
		return fmt.Errorf("custody %s has negative quantities", r.ID)
	}
	if r.ConsumedTotal+r.QuantityReturned > r.QuantityAssigned {
		return fmt.Errorf("custody %s consumed %d + returned %d exceeds assigned %d",
			r.ID, r.ConsumedTotal, r.QuantityReturned, r.QuantityAssigned)
	}
	if r.QuantityRemaining != r.Balance() {
		return fmt.Errorf("custody %s cached remaining %d differs from derived %d",
			r.ID, r.QuantityRemaining, r.Balance())
	}
	return nil
}

// ConsumptionRecord is an immutable usage of custodied units on a job.
//
// Storage model (DynamoDB):
//   - PK: custody_record_id, SK: id
type ConsumptionRecord struct {
	ID              string    `json:"id"`
	CustodyRecordID string    `json:"custody_record_id"`
	JobID           string    `json:"job_id"`
	WorkerID        string    `json:"worker_id"`
	QuantityUsed    int64     `json:"quantity_used"`
	CreatedAt       time.Time `json:"created_at"`
}
