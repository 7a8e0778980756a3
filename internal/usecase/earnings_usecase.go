package usecase

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarningsCreditResult reports the account after a credit. Applied is false when
// the credit had already been applied earlier and nothing changed.
type EarningsCreditResult struct {
	Account entities.EarningsAccount
	Credit  entities.EarningsCredit
	Applied bool
}

// IEarningsUseCase is the earnings accumulator.
//
// Credits are keyed: job credits by job id, manual credits by a caller key or a
// fresh uuid. Re-applying a key is a no-op, so a job is credited at most once.

type IEarningsUseCase interface {
	Credit(ctx context.Context, cmd CreditEarningsCommand) (EarningsCreditResult, error)
	CreditForJob(ctx context.Context, jobID string) (EarningsCreditResult, error)
	CurrentTotal(ctx context.Context, workerID string) (decimal.Decimal, error)
	GetAccount(ctx context.Context, workerID string) (entities.EarningsAccount, error)
}

type EarningsUseCase struct {
	repo       interfaces.IEarningsRepository
	commission ICommissionUseCase
}

var _ IEarningsUseCase = (*EarningsUseCase)(nil)

func NewEarningsUseCase(repo interfaces.IEarningsRepository, commission ICommissionUseCase) *EarningsUseCase {
	return &EarningsUseCase{repo: repo, commission: commission}
}

func (u *EarningsUseCase) Credit(ctx context.Context, cmd CreditEarningsCommand) (EarningsCreditResult, error) {
	if err := cmd.Validate(); err != nil {
		return EarningsCreditResult{}, err
	}
	id := cmd.CreditID
	if id == "" {
		id = "manual#" + uuid.NewString()
	}
	return u.apply(ctx, entities.EarningsCredit{
		ID:        id,
		WorkerID:  cmd.WorkerID,
		Amount:    entities.RoundMoney(cmd.Amount),
		CreatedAt: time.Now().UTC(),
	})
}

func (u *EarningsUseCase) CreditForJob(ctx context.Context, jobID string) (EarningsCreditResult, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return EarningsCreditResult{}, ErrInvalidJobID
	}
	b, err := u.commission.ComputeJob(ctx, jobID)
	if err != nil {
		return EarningsCreditResult{}, err
	}
	if !b.Total.IsPositive() {
		return EarningsCreditResult{}, fmt.Errorf("%w: job %s has no line items", ErrInvalidAmount, jobID)
	}
	return u.apply(ctx, entities.EarningsCredit{
		ID:        entities.CreditIDForJob(jobID),
		WorkerID:  b.WorkerID,
		JobID:     jobID,
		Amount:    b.Total,
		CreatedAt: time.Now().UTC(),
	})
}

func (u *EarningsUseCase) apply(ctx context.Context, credit entities.EarningsCredit) (EarningsCreditResult, error) {
	account, err := u.repo.ApplyCredit(ctx, credit)
	if err == nil {
		return EarningsCreditResult{Account: account, Credit: credit, Applied: true}, nil
	}
	if !errors.Is(err, interfaces.ErrAlreadyExists) {
		return EarningsCreditResult{}, storeErr("apply credit", err)
	}

	existing, err := u.repo.GetCredit(ctx, credit.ID)
	if err != nil {
		return EarningsCreditResult{}, storeErr("load credit", err)
	}
	if existing.WorkerID != credit.WorkerID || !existing.Amount.Equal(credit.Amount) {
		return EarningsCreditResult{}, fmt.Errorf("%w: %s", ErrCreditKeyReused, credit.ID)
	}
	account, err = u.repo.GetAccount(ctx, credit.WorkerID)
	if err != nil {
		return EarningsCreditResult{}, storeErr("load earnings account", err)
	}
	return EarningsCreditResult{Account: account, Credit: existing, Applied: false}, nil
}

func (u *EarningsUseCase) CurrentTotal(ctx context.Context, workerID string) (decimal.Decimal, error) {
	account, err := u.GetAccount(ctx, workerID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.LifetimeEarned, nil
}

// GetAccount returns the worker's account; a worker never credited has a zero account.
func (u *EarningsUseCase) GetAccount(ctx context.Context, workerID string) (entities.EarningsAccount, error) {
	workerID = strings.TrimSpace(workerID)
	if workerID == "" {
		return entities.EarningsAccount{}, ErrInvalidWorkerID
	}
	account, err := u.repo.GetAccount(ctx, workerID)
	if err != nil {
		return entities.EarningsAccount{}, storeErr("load earnings account", err)
	}
	if account.WorkerID == "" {
		account = entities.EarningsAccount{WorkerID: workerID, LifetimeEarned: decimal.Zero, PaidOut: decimal.Zero, Reserved: decimal.Zero}
	}
	return account, nil
}
