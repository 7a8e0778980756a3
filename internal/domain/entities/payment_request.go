package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequestStatus is the approval lifecycle of a worker withdrawal.
//
//	pending -> approved -> paying -> paid
//	pending -> rejected
//
// A pending request may also be cancelled by its owner, which deletes it.
// Paying is claimed before the payout provider is called, so a request is
// disbursed at most once. A request whose disbursement failed or whose outcome
// is unknown stays paying until it is reconciled with the provider.
type PaymentRequestStatus string

const (
	PaymentRequestPending  PaymentRequestStatus = "pending"
	PaymentRequestApproved PaymentRequestStatus = "approved"
	PaymentRequestRejected PaymentRequestStatus = "rejected"
	PaymentRequestPaying   PaymentRequestStatus = "paying"
	PaymentRequestPaid     PaymentRequestStatus = "paid"
)

var paymentRequestTransitions = map[PaymentRequestStatus][]PaymentRequestStatus{
	PaymentRequestPending:  {PaymentRequestApproved, PaymentRequestRejected},
	PaymentRequestApproved: {PaymentRequestPaying},
	PaymentRequestPaying:   {PaymentRequestPaid},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s PaymentRequestStatus) CanTransitionTo(next PaymentRequestStatus) bool {
	for _, allowed := range paymentRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentRequest is a worker-submitted withdrawal against net earnings.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (worker_id-index): worker_id
//   - a "pending#<worker_id>" lock item exists while the worker has a pending request
//
// Snapshots are frozen at creation time and are not recomputed on approval.
// Approval reserves RequestedAmount on the worker's earnings account until the
// request is paid.
type PaymentRequest struct {
	ID                    string               `json:"id"`
	WorkerID              string               `json:"worker_id"`
	RequestedAmount       decimal.Decimal      `json:"requested_amount"`
	TotalEarningsSnapshot decimal.Decimal      `json:"total_earnings_snapshot"`
	PaidOutSnapshot       decimal.Decimal      `json:"paid_out_snapshot"`
	ReservedSnapshot      decimal.Decimal      `json:"reserved_snapshot"`
	MaterialDeductions    decimal.Decimal      `json:"material_deductions"`
	ToolDeductions        decimal.Decimal      `json:"tool_deductions"`
	Status                PaymentRequestStatus `json:"status"`
	ApproverID            string               `json:"approver_id,omitempty"`
	ApprovalTimestamp     *time.Time           `json:"approval_timestamp,omitempty"`
	Notes                 string               `json:"notes,omitempty"`
	PayoutReference       string               `json:"payout_reference,omitempty"`
	PaidAt                *time.Time           `json:"paid_at,omitempty"`
	Version               int64                `json:"version"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

func (p PaymentRequest) TotalDeductions() decimal.Decimal {
	return p.MaterialDeductions.Add(p.ToolDeductions)
}

// NetCeiling is the snapshot ceiling the request was checked against.
func (p PaymentRequest) NetCeiling() decimal.Decimal {
	return p.TotalEarningsSnapshot.Sub(p.PaidOutSnapshot).Sub(p.ReservedSnapshot).Sub(p.TotalDeductions())
}
