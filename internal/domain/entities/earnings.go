package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EarningsAccount is the running total of what a worker has earned.
//
// Storage model (DynamoDB):
//   - PK: worker_id
//
// LifetimeEarned only grows through credits. Reserved holds the amounts of
// approved requests that are not paid yet; paying a request moves its amount
// from Reserved to PaidOut. Lifetime earnings are never decremented.
type EarningsAccount struct {
	WorkerID       string          `json:"worker_id"`
	LifetimeEarned decimal.Decimal `json:"lifetime_earned"`
	PaidOut        decimal.Decimal `json:"paid_out"`
	Reserved       decimal.Decimal `json:"reserved"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Available is what has been earned and is neither paid out nor reserved by an
// approved request.
func (a EarningsAccount) Available() decimal.Decimal {
	return a.LifetimeEarned.Sub(a.PaidOut).Sub(a.Reserved)
}

// EarningsCredit is one applied credit. Its ID is derived from the job when the
// credit comes from a job, which makes a second credit for the same job collide.
//
// Storage model (DynamoDB):
//   - PK: id
type EarningsCredit struct {
	ID        string          `json:"id"`
	WorkerID  string          `json:"worker_id"`
	JobID     string          `json:"job_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreditIDForJob is the applied-credit key of a job.
func CreditIDForJob(jobID string) string {
	return "job#" + jobID
}

// CommissionLine is the commission computed for one line item.
type CommissionLine struct {
	ServiceID            string          `json:"service_id"`
	Price                decimal.Decimal `json:"price"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	Amount               decimal.Decimal `json:"amount"`
	Commissionable       bool            `json:"commissionable"`
}

// CommissionBreakdown is the per-line and total commission of a job.
type CommissionBreakdown struct {
	JobID    string           `json:"job_id"`
	WorkerID string           `json:"worker_id"`
	Lines    []CommissionLine `json:"lines"`
	Total    decimal.Decimal  `json:"total"`
}
