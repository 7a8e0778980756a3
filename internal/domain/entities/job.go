package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus is the lifecycle of a check-in as tracked by the dispatch side.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusPaid       JobStatus = "paid"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsFinished reports whether the job's line items are frozen and commissionable.
func (s JobStatus) IsFinished() bool {
	return s == JobStatusCompleted || s == JobStatusPaid
}

// ServiceLineItem is one billed service of a check-in.
//
// CommissionPercentage is copied from the service catalog when the job is
// completed, so later catalog edits do not change past commissions. Either
// field may be absent for non-commissionable add-ons.
type ServiceLineItem struct {
	ServiceID            string              `json:"service_id"`
	Price                decimal.NullDecimal `json:"price"`
	CommissionPercentage decimal.NullDecimal `json:"commission_percentage"`
}

// Job is a check-in owned by the scheduling subsystem. This service only reads
// completed jobs.
type Job struct {
	ID               string            `json:"id"`
	AssignedWorkerID string            `json:"assigned_worker_id"`
	Status           JobStatus         `json:"status"`
	LineItems        []ServiceLineItem `json:"line_items"`
	CompletedAt      time.Time         `json:"completed_at"`
}
