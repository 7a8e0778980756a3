package memory

import (
	"context"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

type EarningsRepository struct {
	s *Store
}

var _ interfaces.IEarningsRepository = (*EarningsRepository)(nil)

func NewEarningsRepository(s *Store) *EarningsRepository {
	return &EarningsRepository{s: s}
}

func (r *EarningsRepository) GetAccount(ctx context.Context, workerID string) (entities.EarningsAccount, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.EarningsAccount{}, err
	}
	defer r.s.mu.Unlock()
	return r.s.accounts[workerID], nil
}

func (r *EarningsRepository) ApplyCredit(ctx context.Context, credit entities.EarningsCredit) (entities.EarningsAccount, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.EarningsAccount{}, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.credits[credit.ID]; ok {
		return entities.EarningsAccount{}, interfaces.ErrAlreadyExists
	}
	account := r.s.account(credit.WorkerID)
	account.LifetimeEarned = account.LifetimeEarned.Add(credit.Amount)
	account.Version++
	account.UpdatedAt = credit.CreatedAt

	r.s.credits[credit.ID] = credit
	r.s.accounts[credit.WorkerID] = account
	return account, nil
}

func (r *EarningsRepository) GetCredit(ctx context.Context, id string) (entities.EarningsCredit, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.EarningsCredit{}, err
	}
	defer r.s.mu.Unlock()
	return r.s.credits[id], nil
}

// account returns the stored account or a zero one. Lock must be held.
func (s *Store) account(workerID string) entities.EarningsAccount {
	account, ok := s.accounts[workerID]
	if !ok {
		account = entities.EarningsAccount{WorkerID: workerID, LifetimeEarned: decimal.Zero, PaidOut: decimal.Zero, Reserved: decimal.Zero}
	}
	return account
}
