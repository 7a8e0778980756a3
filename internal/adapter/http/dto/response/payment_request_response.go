package response

import (
	"carwash_payouts/internal/domain/entities"
	"time"
)

type PaymentRequestResponse struct {
	ID                    string     `json:"id"`
	WorkerID              string     `json:"worker_id"`
	RequestedAmount       string     `json:"requested_amount"`
	TotalEarningsSnapshot string     `json:"total_earnings_snapshot"`
	PaidOutSnapshot       string     `json:"paid_out_snapshot"`
	ReservedSnapshot      string     `json:"reserved_snapshot"`
	MaterialDeductions    string     `json:"material_deductions"`
	ToolDeductions        string     `json:"tool_deductions"`
	Status                string     `json:"status"`
	ApproverID            string     `json:"approver_id,omitempty"`
	ApprovalTimestamp     *time.Time `json:"approval_timestamp,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	PayoutReference       string     `json:"payout_reference,omitempty"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func FromPaymentRequest(p entities.PaymentRequest) PaymentRequestResponse {
	return PaymentRequestResponse{
		ID:                    p.ID,
		WorkerID:              p.WorkerID,
		RequestedAmount:       entities.FormatMoney(p.RequestedAmount),
		TotalEarningsSnapshot: entities.FormatMoney(p.TotalEarningsSnapshot),
		PaidOutSnapshot:       entities.FormatMoney(p.PaidOutSnapshot),
		ReservedSnapshot:      entities.FormatMoney(p.ReservedSnapshot),
		MaterialDeductions:    entities.FormatMoney(p.MaterialDeductions),
		ToolDeductions:        entities.FormatMoney(p.ToolDeductions),
		Status:                string(p.Status),
		ApproverID:            p.ApproverID,
		ApprovalTimestamp:     p.ApprovalTimestamp,
		Notes:                 p.Notes,
		PayoutReference:       p.PayoutReference,
		PaidAt:                p.PaidAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func FromPaymentRequestList(items []entities.PaymentRequest) []PaymentRequestResponse {
	out := make([]PaymentRequestResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromPaymentRequest(p))
	}
	return out
}
