package request

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase"
)

type CreatePaymentRequestRequest struct {
	Amount string `json:"amount" binding:"required,money"`
	Notes  string `json:"notes" binding:"max=500"`
}

func (r CreatePaymentRequestRequest) ToCommand(workerID string) usecase.CreatePaymentRequestCommand {
	amount, _ := entities.ParseMoney(r.Amount)
	return usecase.CreatePaymentRequestCommand{
		WorkerID:        workerID,
		RequestedAmount: amount,
		Notes:           r.Notes,
	}
}

// ReviewRequest is the optional body of approve, reject and pay.
type ReviewRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

func (r ReviewRequest) ToCommand(requestID, approverID string) usecase.ReviewPaymentRequestCommand {
	return usecase.ReviewPaymentRequestCommand{RequestID: requestID, ApproverID: approverID, Notes: r.Notes}
}
