package memory

import (
	"context"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
)

type CustodyRepository struct {
	s *Store
}

var _ interfaces.ICustodyRepository = (*CustodyRepository)(nil)

func NewCustodyRepository(s *Store) *CustodyRepository {
	return &CustodyRepository{s: s}
}

func (r *CustodyRepository) Create(ctx context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.CustodyRecord{}, err
	}
	defer r.s.mu.Unlock()

	if _, ok := r.s.custody[rec.ID]; ok {
		return entities.CustodyRecord{}, interfaces.ErrAlreadyExists
	}
	r.s.custody[rec.ID] = rec
	return rec, nil
}

func (r *CustodyRepository) GetByID(ctx context.Context, id string) (entities.CustodyRecord, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.CustodyRecord{}, err
	}
	defer r.s.mu.Unlock()
	return r.s.custody[id], nil
}

func (r *CustodyRepository) ListByWorker(ctx context.Context, workerID string) ([]entities.CustodyRecord, error) {
	if err := r.s.lock(ctx); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	out := make([]entities.CustodyRecord, 0)
	for _, rec := range r.s.custody {
		if rec.WorkerID == workerID {
			out = append(out, rec)
		}
	}
	sortCustody(out)
	return out, nil
}

func (r *CustodyRepository) ApplyConsumption(ctx context.Context, rec entities.CustodyRecord, c entities.ConsumptionRecord) (entities.CustodyRecord, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.CustodyRecord{}, err
	}
	defer r.s.mu.Unlock()

	stored, err := r.compareVersion(rec)
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	rec.Version = stored.Version + 1
	r.s.custody[rec.ID] = rec
	r.s.consumptions[rec.ID] = append(r.s.consumptions[rec.ID], c)
	return rec, nil
}

func (r *CustodyRepository) ApplyReturn(ctx context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error) {
	if err := r.s.lock(ctx); err != nil {
		return entities.CustodyRecord{}, err
	}
	defer r.s.mu.Unlock()

	stored, err := r.compareVersion(rec)
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	rec.Version = stored.Version + 1
	r.s.custody[rec.ID] = rec
	return rec, nil
}

func (r *CustodyRepository) ListConsumptions(ctx context.Context, custodyRecordID string) ([]entities.ConsumptionRecord, error) {
	if err := r.s.lock(ctx); err != nil {
		return nil, err
	}
	defer r.s.mu.Unlock()

	src := r.s.consumptions[custodyRecordID]
	out := make([]entities.ConsumptionRecord, len(src))
	copy(out, src)
	return out, nil
}

func (r *CustodyRepository) Delete(ctx context.Context, rec entities.CustodyRecord) error {
	if err := r.s.lock(ctx); err != nil {
		return err
	}
	defer r.s.mu.Unlock()

	stored, err := r.compareVersion(rec)
	if err != nil {
		return err
	}
	if stored.ConsumedTotal > 0 || len(r.s.consumptions[rec.ID]) > 0 {
		return interfaces.ErrVersionConflict
	}
	delete(r.s.custody, rec.ID)
	return nil
}

// compareVersion must be called with the lock held.
func (r *CustodyRepository) compareVersion(rec entities.CustodyRecord) (entities.CustodyRecord, error) {
	stored, ok := r.s.custody[rec.ID]
	if !ok || stored.Version != rec.Version {
		return entities.CustodyRecord{}, interfaces.ErrVersionConflict
	}
	return stored, nil
}
