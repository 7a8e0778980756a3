package usecase

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var maxPercentage = decimal.NewFromInt(100)

// ICommissionUseCase computes the worker's share of a completed job.
//
// Commission = Σ price × percentage / 100 over line items carrying both values,
// rounded half-up to the cent once, on the total.

type ICommissionUseCase interface {
	ComputeWorkerEarnings(job entities.Job) (decimal.Decimal, error)
	Breakdown(job entities.Job) (entities.CommissionBreakdown, error)
	PreviewJob(ctx context.Context, jobID string) (entities.CommissionBreakdown, error)
	ComputeJob(ctx context.Context, jobID string) (entities.CommissionBreakdown, error)
}

type CommissionUseCase struct {
	jobs interfaces.IJobSource
}

var _ ICommissionUseCase = (*CommissionUseCase)(nil)

func NewCommissionUseCase(jobs interfaces.IJobSource) *CommissionUseCase {
	return &CommissionUseCase{jobs: jobs}
}

func (u *CommissionUseCase) ComputeWorkerEarnings(job entities.Job) (decimal.Decimal, error) {
	b, err := u.Breakdown(job)
	if err != nil {
		return decimal.Zero, err
	}
	if len(job.LineItems) > 0 && b.Total.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: job %s", ErrNoEarningsComputed, job.ID)
	}
	return b.Total, nil
}

// Breakdown returns the per-line commission without applying the zero-total rule.
func (u *CommissionUseCase) Breakdown(job entities.Job) (entities.CommissionBreakdown, error) {
	exact := decimal.Zero
	lines := make([]entities.CommissionLine, 0, len(job.LineItems))
	for i, item := range job.LineItems {
		line := entities.CommissionLine{ServiceID: item.ServiceID}
		if !item.Price.Valid || !item.CommissionPercentage.Valid {
			lines = append(lines, line)
			continue
		}
		price, pct := item.Price.Decimal, item.CommissionPercentage.Decimal
		if price.IsNegative() || pct.IsNegative() || pct.GreaterThan(maxPercentage) {
			return entities.CommissionBreakdown{}, fmt.Errorf("%w: job %s line %d", ErrInvalidLineItem, job.ID, i)
		}
		contribution := entities.PercentOf(price, pct)
		exact = exact.Add(contribution)

		line.Price = price
		line.CommissionPercentage = pct
		line.Amount = entities.RoundMoney(contribution)
		line.Commissionable = true
		lines = append(lines, line)
	}
	return entities.CommissionBreakdown{
		JobID:    job.ID,
		WorkerID: job.AssignedWorkerID,
		Lines:    lines,
		Total:    entities.RoundMoney(exact),
	}, nil
}

func (u *CommissionUseCase) PreviewJob(ctx context.Context, jobID string) (entities.CommissionBreakdown, error) {
	job, err := u.loadCompletedJob(ctx, jobID)
	if err != nil {
		return entities.CommissionBreakdown{}, err
	}
	return u.Breakdown(job)
}

// ComputeJob loads a completed job and computes its commission, failing with
// ErrNoEarningsComputed when the line items yield nothing.
func (u *CommissionUseCase) ComputeJob(ctx context.Context, jobID string) (entities.CommissionBreakdown, error) {
	job, err := u.loadCompletedJob(ctx, jobID)
	if err != nil {
		return entities.CommissionBreakdown{}, err
	}
	b, err := u.Breakdown(job)
	if err != nil {
		return entities.CommissionBreakdown{}, err
	}
	if len(job.LineItems) > 0 && b.Total.IsZero() {
		return entities.CommissionBreakdown{}, fmt.Errorf("%w: job %s", ErrNoEarningsComputed, job.ID)
	}
	return b, nil
}

func (u *CommissionUseCase) loadCompletedJob(ctx context.Context, jobID string) (entities.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return entities.Job{}, ErrInvalidJobID
	}
	job, err := u.jobs.GetCompletedJob(ctx, jobID)
	if err != nil {
		return entities.Job{}, storeErr("load job", err)
	}
	if job.ID == "" {
		return entities.Job{}, ErrJobNotFound
	}
	if !job.Status.IsFinished() {
		return entities.Job{}, fmt.Errorf("%w: job %s is %s", ErrJobNotCompleted, job.ID, job.Status)
	}
	if strings.TrimSpace(job.AssignedWorkerID) == "" {
		return entities.Job{}, fmt.Errorf("%w: job %s", ErrJobWithoutWorker, job.ID)
	}
	return job, nil
}
