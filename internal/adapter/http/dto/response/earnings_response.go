package response

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase"
)

type EarningsAccountResponse struct {
	WorkerID       string `json:"worker_id"`
	LifetimeEarned string `json:"lifetime_earned"`
	PaidOut        string `json:"paid_out"`
	Reserved       string `json:"reserved"`
	Available      string `json:"available"`
}

func FromEarningsAccount(a entities.EarningsAccount) EarningsAccountResponse {
	return EarningsAccountResponse{
		WorkerID:       a.WorkerID,
		LifetimeEarned: entities.FormatMoney(a.LifetimeEarned),
		PaidOut:        entities.FormatMoney(a.PaidOut),
		Reserved:       entities.FormatMoney(a.Reserved),
		Available:      entities.FormatMoney(a.Available()),
	}
}

// CreditResponse reports the running total after a credit. Applied is false on
// a replayed credit key.
type CreditResponse struct {
	CreditID     string                  `json:"credit_id"`
	JobID        string                  `json:"job_id,omitempty"`
	Amount       string                  `json:"amount"`
	Applied      bool                    `json:"applied"`
	CurrentTotal string                  `json:"current_total"`
	Account      EarningsAccountResponse `json:"account"`
}

func FromCreditResult(r usecase.EarningsCreditResult) CreditResponse {
	return CreditResponse{
		CreditID:     r.Credit.ID,
		JobID:        r.Credit.JobID,
		Amount:       entities.FormatMoney(r.Credit.Amount),
		Applied:      r.Applied,
		CurrentTotal: entities.FormatMoney(r.Account.LifetimeEarned),
		Account:      FromEarningsAccount(r.Account),
	}
}

type CommissionLineResponse struct {
	ServiceID            string `json:"service_id"`
	Price                string `json:"price"`
	CommissionPercentage string `json:"commission_percentage"`
	Amount               string `json:"amount"`
	Commissionable       bool   `json:"commissionable"`
}

type CommissionBreakdownResponse struct {
	JobID    string                   `json:"job_id"`
	WorkerID string                   `json:"worker_id"`
	Lines    []CommissionLineResponse `json:"lines"`
	Total    string                   `json:"total"`
}

func FromCommissionBreakdown(b entities.CommissionBreakdown) CommissionBreakdownResponse {
	lines := make([]CommissionLineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, CommissionLineResponse{
			ServiceID:            l.ServiceID,
			Price:                l.Price.String(),
			CommissionPercentage: l.CommissionPercentage.String(),
			Amount:               l.Amount.String(),
			Commissionable:       l.Commissionable,
		})
	}
	return CommissionBreakdownResponse{
		JobID:    b.JobID,
		WorkerID: b.WorkerID,
		Lines:    lines,
		Total:    entities.FormatMoney(b.Total),
	}
}
