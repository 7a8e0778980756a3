package memory

import (
	"context"
	"sort"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
)

type PaymentRequestRepository struct {
	s *Store
}

var _ interfaces.IPaymentRequestRepository = (*PaymentRequestRepository)(nil)

func NewPaymentRequestRepository(s *Store) *PaymentRequestRepository {
	return &PaymentRequestRepository{s: s}
}

func (r *PaymentRequestRepository) CreatePending(ctx context.Context, p entities.PaymentRequest, guard interfaces.SnapshotGuard) (entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.PaymentRequest{}, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.pending[p.WorkerID]; ok {
		return entities.PaymentRequest{}, interfaces.ErrPendingRequestExists
	}
	if r.s.accounts[p.WorkerID].Version != guard.EarningsVersion {
		return entities.PaymentRequest{}, interfaces.ErrVersionConflict
	}
	for id, version := range guard.CustodyVersions {
		if rec, ok := r.s.custody[id]; !ok || rec.Version != version {
			return entities.PaymentRequest{}, interfaces.ErrVersionConflict
		}
	}
	if _, ok := r.s.requests[p.ID]; ok {
		return entities.PaymentRequest{}, interfaces.ErrAlreadyExists
	}

	r.s.requests[p.ID] = p
	r.s.pending[p.WorkerID] = p.ID
	return p, nil
}

func (r *PaymentRequestRepository) GetByID(ctx context.Context, id string) (entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.PaymentRequest{}, err
	}
	defer r.s.mu.Unlock()
	return r.s.requests[id], nil
}

func (r *PaymentRequestRepository) GetPendingByWorker(ctx context.Context, workerID string) (entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.PaymentRequest{}, err
	}
	defer r.s.mu.Unlock()

	id, ok := r.s.pending[workerID]
	if !ok {
		return entities.PaymentRequest{}, nil
	}
	return r.s.requests[id], nil
}

func (r *PaymentRequestRepository) ListByWorker(ctx context.Context, workerID string) ([]entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	out := make([]entities.PaymentRequest, 0)
	for _, p := range r.s.requests {
		if p.WorkerID == workerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentRequestRepository) Transition(ctx context.Context, p entities.PaymentRequest, from entities.PaymentRequestStatus) (entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.PaymentRequest{}, err
	}
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[p.ID]
	if !ok || stored.Status != from || stored.Version != p.Version {
		return entities.PaymentRequest{}, interfaces.ErrVersionConflict
	}
	p.Version = stored.Version + 1
	r.s.requests[p.ID] = p
	if from == entities.PaymentRequestPending && r.s.pending[p.WorkerID] == p.ID {
		delete(r.s.pending, p.WorkerID)
	}
	return p, nil
}

func (r *PaymentRequestRepository) Approve(ctx context.Context, p entities.PaymentRequest, earningsVersion int64) (entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.PaymentRequest{}, err
	}
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[p.ID]
	if !ok || stored.Status != entities.PaymentRequestPending || stored.Version != p.Version {
		return entities.PaymentRequest{}, interfaces.ErrVersionConflict
	}
	account := r.s.account(p.WorkerID)
	if account.Version != earningsVersion {
		return entities.PaymentRequest{}, interfaces.ErrVersionConflict
	}
	account.Reserved = account.Reserved.Add(p.RequestedAmount)
	account.Version++
	account.UpdatedAt = p.UpdatedAt

	p.Version = stored.Version + 1
	r.s.requests[p.ID] = p
	r.s.accounts[p.WorkerID] = account
	if r.s.pending[p.WorkerID] == p.ID {
		delete(r.s.pending, p.WorkerID)
	}
	return p, nil
}

func (r *PaymentRequestRepository) MarkPaid(ctx context.Context, p entities.PaymentRequest) (entities.PaymentRequest, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.PaymentRequest{}, err
	}
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[p.ID]
	if !ok || stored.Status != entities.PaymentRequestPaying || stored.Version != p.Version {
		return entities.PaymentRequest{}, interfaces.ErrVersionConflict
	}
	account := r.s.account(p.WorkerID)
	account.PaidOut = account.PaidOut.Add(p.RequestedAmount)
	account.Reserved = account.Reserved.Sub(p.RequestedAmount)
	account.Version++
	account.UpdatedAt = p.UpdatedAt

	p.Version = stored.Version + 1
	r.s.requests[p.ID] = p
	r.s.accounts[p.WorkerID] = account
	return p, nil
}

func (r *PaymentRequestRepository) DeletePending(ctx context.Context, p entities.PaymentRequest) error {
	if err := r.s.lock(ctx); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[p.ID]
	if !ok || stored.Status != entities.PaymentRequestPending || stored.Version != p.Version {
		return interfaces.ErrVersionConflict
	}
	delete(r.s.requests, p.ID)
	if r.s.pending[p.WorkerID] == p.ID {
		delete(r.s.pending, p.WorkerID)
	}
	return nil
}
