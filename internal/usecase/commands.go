package usecase

import (
	"carwash_payouts/internal/domain/entities"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Each state change of the engine is expressed as its own command with its own
// validated field set. Validate trims identifiers in place.

type AssignCustodyCommand struct {
	WorkerID  string
	ItemName  string
	ItemKind  entities.ItemKind
	Quantity  int64
	UnitPrice decimal.Decimal
}

func (c *AssignCustodyCommand) Validate() error {
	c.WorkerID = strings.TrimSpace(c.WorkerID)
	if c.WorkerID == "" {
		return ErrInvalidWorkerID
	}
	// Item names are matched case-sensitively later on; only surrounding
	// whitespace is dropped.
	c.ItemName = strings.TrimSpace(c.ItemName)
	if c.ItemName == "" {
		return ErrInvalidItemName
	}
	if !c.ItemKind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidItemKind, c.ItemKind)
	}
	if c.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !c.UnitPrice.IsPositive() {
		return ErrInvalidPrice
	}
	if !c.UnitPrice.Equal(entities.RoundMoney(c.UnitPrice)) {
		return fmt.Errorf("%w: more than %d fractional digits", ErrInvalidPrice, entities.MoneyScale)
	}
	return nil
}

type RecordConsumptionCommand struct {
	CustodyRecordID string
	JobID           string
	QuantityUsed    int64
}

func (c *RecordConsumptionCommand) Validate() error {
	c.CustodyRecordID = strings.TrimSpace(c.CustodyRecordID)
	if c.CustodyRecordID == "" {
		return ErrInvalidCustodyID
	}
	c.JobID = strings.TrimSpace(c.JobID)
	if c.JobID == "" {
		return ErrInvalidJobID
	}
	if c.QuantityUsed <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// RecordItemConsumptionCommand consumes by item name instead of record id.
type RecordItemConsumptionCommand struct {
	WorkerID     string
	JobID        string
	ItemName     string
	ItemKind     entities.ItemKind
	QuantityUsed int64
}

func (c *RecordItemConsumptionCommand) Validate() error {
	c.WorkerID = strings.TrimSpace(c.WorkerID)
	if c.WorkerID == "" {
		return ErrInvalidWorkerID
	}
	c.JobID = strings.TrimSpace(c.JobID)
	if c.JobID == "" {
		return ErrInvalidJobID
	}
	if c.ItemName == "" {
		return ErrInvalidItemName
	}
	if !c.ItemKind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidItemKind, c.ItemKind)
	}
	if c.QuantityUsed <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

type RecordReturnCommand struct {
	CustodyRecordID  string
	QuantityReturned int64
}

func (c *RecordReturnCommand) Validate() error {
	c.CustodyRecordID = strings.TrimSpace(c.CustodyRecordID)
	if c.CustodyRecordID == "" {
		return ErrInvalidCustodyID
	}
	if c.QuantityReturned <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

type CreditEarningsCommand struct {
	WorkerID string
	Amount   decimal.Decimal
	// CreditID makes a manual credit replay-safe. Empty means a fresh key.
	CreditID string
}

func (c *CreditEarningsCommand) Validate() error {
	c.WorkerID = strings.TrimSpace(c.WorkerID)
	if c.WorkerID == "" {
		return ErrInvalidWorkerID
	}
	if !c.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	c.CreditID = strings.TrimSpace(c.CreditID)
	return nil
}

type CreatePaymentRequestCommand struct {
	WorkerID        string
	RequestedAmount decimal.Decimal
	Notes           string
	// AllowOverCeiling lets the calling surface accept a request above the net
	// earnings ceiling. The ceiling is still snapshotted on the request.
	AllowOverCeiling bool
}

func (c *CreatePaymentRequestCommand) Validate() error {
	c.WorkerID = strings.TrimSpace(c.WorkerID)
	if c.WorkerID == "" {
		return ErrInvalidWorkerID
	}
	if !c.RequestedAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if !c.RequestedAmount.Equal(entities.RoundMoney(c.RequestedAmount)) {
		return fmt.Errorf("%w: more than %d fractional digits", ErrInvalidAmount, entities.MoneyScale)
	}
	c.Notes = strings.TrimSpace(c.Notes)
	return nil
}

// ReviewPaymentRequestCommand drives the admin transitions approve, reject and pay.
type ReviewPaymentRequestCommand struct {
	RequestID  string
	ApproverID string
	Notes      string
}

func (c *ReviewPaymentRequestCommand) Validate() error {
	c.RequestID = strings.TrimSpace(c.RequestID)
	if c.RequestID == "" {
		return ErrInvalidRequestID
	}
	c.ApproverID = strings.TrimSpace(c.ApproverID)
	if c.ApproverID == "" {
		return ErrInvalidApproverID
	}
	c.Notes = strings.TrimSpace(c.Notes)
	return nil
}

type CancelPaymentRequestCommand struct {
	RequestID string
	WorkerID  string
}

func (c *CancelPaymentRequestCommand) Validate() error {
	c.RequestID = strings.TrimSpace(c.RequestID)
	if c.RequestID == "" {
		return ErrInvalidRequestID
	}
	c.WorkerID = strings.TrimSpace(c.WorkerID)
	if c.WorkerID == "" {
		return ErrInvalidWorkerID
	}
	return nil
}
