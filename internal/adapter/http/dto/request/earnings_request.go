package request

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase"
)

// CreditEarningsRequest is a manual credit. CreditID makes retries safe.
type CreditEarningsRequest struct {
	Amount   string `json:"amount" binding:"required,money"`
	CreditID string `json:"credit_id"`
}

func (r CreditEarningsRequest) ToCommand(workerID string) usecase.CreditEarningsCommand {
	amount, _ := entities.ParseMoney(r.Amount)
	return usecase.CreditEarningsCommand{WorkerID: workerID, Amount: amount, CreditID: r.CreditID}
}
