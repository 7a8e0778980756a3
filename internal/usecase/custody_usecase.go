package usecase

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConsumptionResult is the consumption written and the custody record after it.
type ConsumptionResult struct {
	Consumption entities.ConsumptionRecord
	Record      entities.CustodyRecord
}

// ICustodyUseCase is the custody ledger: what each worker holds and how much of
// it is still available.
//
// For every record, consumed + returned never exceeds assigned. Writes are
// compare-and-swap on the record version; a lost race is re-read once to tell
// "balance is gone" (ErrInsufficientCustody / ErrOverReturn) from "someone
// else wrote first" (ErrConcurrentUpdate, safe to retry).
type ICustodyUseCase interface {
	Assign(ctx context.Context, cmd AssignCustodyCommand) (entities.CustodyRecord, error)
	RecordConsumption(ctx context.Context, cmd RecordConsumptionCommand) (ConsumptionResult, error)
	RecordItemConsumption(ctx context.Context, cmd RecordItemConsumptionCommand) (ConsumptionResult, error)
	RecordReturn(ctx context.Context, cmd RecordReturnCommand) (entities.CustodyRecord, error)
	AvailableFor(ctx context.Context, workerID string) ([]entities.CustodyRecord, error)
	GetByID(ctx context.Context, id string) (entities.CustodyRecord, error)
	ListConsumptions(ctx context.Context, custodyRecordID string) ([]entities.ConsumptionRecord, error)
	Revoke(ctx context.Context, id string) error
}

type CustodyUseCase struct {
	repo interfaces.ICustodyRepository
}

var _ ICustodyUseCase = (*CustodyUseCase)(nil)

func NewCustodyUseCase(repo interfaces.ICustodyRepository) *CustodyUseCase {
	return &CustodyUseCase{repo: repo}
}

func (u *CustodyUseCase) Assign(ctx context.Context, cmd AssignCustodyCommand) (entities.CustodyRecord, error) {
	if err := cmd.Validate(); err != nil {
		return entities.CustodyRecord{}, err
	}

	now := time.Now().UTC()
	rec := entities.CustodyRecord{
		ID:                uuid.NewString(),
		WorkerID:          cmd.WorkerID,
		ItemName:          cmd.ItemName,
		ItemKind:          cmd.ItemKind,
		QuantityAssigned:  cmd.Quantity,
		QuantityRemaining: cmd.Quantity,
		UnitPrice:         cmd.UnitPrice,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	created, err := u.repo.Create(ctx, rec)
	if err != nil {
		return entities.CustodyRecord{}, custodyStoreErr("create custody record", err)
	}
	return created, nil
}

func (u *CustodyUseCase) RecordConsumption(ctx context.Context, cmd RecordConsumptionCommand) (ConsumptionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConsumptionResult{}, err
	}

	rec, err := u.load(ctx, cmd.CustodyRecordID)
	if err != nil {
		return ConsumptionResult{}, err
	}
	if cmd.QuantityUsed > rec.Balance() {
		return ConsumptionResult{}, insufficient(rec, cmd.QuantityUsed)
	}

	now := time.Now().UTC()
	next := rec
	next.ConsumedTotal += cmd.QuantityUsed
	next.QuantityRemaining = next.Balance()
	next.UpdatedAt = now

	c := entities.ConsumptionRecord{
		ID:              uuid.NewString(),
		CustodyRecordID: rec.ID,
		JobID:           cmd.JobID,
		WorkerID:        rec.WorkerID,
		QuantityUsed:    cmd.QuantityUsed,
		CreatedAt:       now,
	}

	stored, err := u.repo.ApplyConsumption(ctx, next, c)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		fresh, lerr := u.load(ctx, rec.ID)
		if lerr != nil {
			return ConsumptionResult{}, lerr
		}
		if cmd.QuantityUsed > fresh.Balance() {
			return ConsumptionResult{}, insufficient(fresh, cmd.QuantityUsed)
		}
		return ConsumptionResult{}, fmt.Errorf("%w: custody %s", ErrConcurrentUpdate, rec.ID)
	}
	if err != nil {
		return ConsumptionResult{}, custodyStoreErr("apply consumption", err)
	}
	return ConsumptionResult{Consumption: c, Record: stored}, nil
}

// RecordItemConsumption resolves the custody record by exact item name and kind
// among the worker's available records. When several match, the oldest record
// that can cover the whole quantity is used.
func (u *CustodyUseCase) RecordItemConsumption(ctx context.Context, cmd RecordItemConsumptionCommand) (ConsumptionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ConsumptionResult{}, err
	}

	available, err := u.AvailableFor(ctx, cmd.WorkerID)
	if err != nil {
		return ConsumptionResult{}, err
	}

	var matches []entities.CustodyRecord
	for _, rec := range available {
		if rec.ItemName == cmd.ItemName && rec.ItemKind == cmd.ItemKind {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return ConsumptionResult{}, fmt.Errorf("%w: worker %s holds no %s %q", ErrCustodyNotFound, cmd.WorkerID, cmd.ItemKind, cmd.ItemName)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	for _, rec := range matches {
		if rec.Balance() >= cmd.QuantityUsed {
			return u.RecordConsumption(ctx, RecordConsumptionCommand{
				CustodyRecordID: rec.ID,
				JobID:           cmd.JobID,
				QuantityUsed:    cmd.QuantityUsed,
			})
		}
	}
	return ConsumptionResult{}, fmt.Errorf("%w: no single %q record holds %d", ErrInsufficientCustody, cmd.ItemName, cmd.QuantityUsed)
}

func (u *CustodyUseCase) RecordReturn(ctx context.Context, cmd RecordReturnCommand) (entities.CustodyRecord, error) {
	if err := cmd.Validate(); err != nil {
		return entities.CustodyRecord{}, err
	}

	rec, err := u.load(ctx, cmd.CustodyRecordID)
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	if cmd.QuantityReturned > rec.Balance() {
		return entities.CustodyRecord{}, overReturn(rec, cmd.QuantityReturned)
	}

	next := rec
	next.QuantityReturned += cmd.QuantityReturned
	next.QuantityRemaining = next.Balance()
	next.UpdatedAt = time.Now().UTC()

	stored, err := u.repo.ApplyReturn(ctx, next)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		fresh, lerr := u.load(ctx, rec.ID)
		if lerr != nil {
			return entities.CustodyRecord{}, lerr
		}
		if cmd.QuantityReturned > fresh.Balance() {
			return entities.CustodyRecord{}, overReturn(fresh, cmd.QuantityReturned)
		}
		return entities.CustodyRecord{}, fmt.Errorf("%w: custody %s", ErrConcurrentUpdate, rec.ID)
	}
	if err != nil {
		return entities.CustodyRecord{}, custodyStoreErr("apply return", err)
	}
	return stored, nil
}

// AvailableFor lists the worker's records that still have a positive balance.
// A record with inconsistent stored quantities fails the whole call.
func (u *CustodyUseCase) AvailableFor(ctx context.Context, workerID string) ([]entities.CustodyRecord, error) {
	workerID = strings.TrimSpace(workerID)
	if workerID == "" {
		return nil, ErrInvalidWorkerID
	}
	records, err := u.repo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, custodyStoreErr("list custody records", err)
	}

	out := make([]entities.CustodyRecord, 0, len(records))
	for _, rec := range records {
		if err := rec.CheckIntegrity(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCustodyIntegrity, err)
		}
		if rec.Balance() > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (u *CustodyUseCase) GetByID(ctx context.Context, id string) (entities.CustodyRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.CustodyRecord{}, ErrInvalidCustodyID
	}
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.CustodyRecord{}, custodyStoreErr("load custody record", err)
	}
	if rec.ID == "" {
		return entities.CustodyRecord{}, ErrCustodyNotFound
	}
	return rec, nil
}

// listAttempts bounds how often ListConsumptions re-reads a record that kept
// moving while its consumptions were listed.
const listAttempts = 3

// ListConsumptions returns the record's consumptions after checking that they
// add up to the cached consumed total.
//
// A mismatch only counts as an integrity fault if the record is still at the
// version it was read at; a consumption committed between the two reads makes
// the listing retry instead.
func (u *CustodyUseCase) ListConsumptions(ctx context.Context, custodyRecordID string) ([]entities.ConsumptionRecord, error) {
	rec, err := u.GetByID(ctx, custodyRecordID)
	if err != nil {
		return nil, err
	}
	for attempt := 1; ; attempt++ {
		consumptions, err := u.repo.ListConsumptions(ctx, rec.ID)
		if err != nil {
			return nil, custodyStoreErr("list consumptions", err)
		}

		var sum int64
		for _, c := range consumptions {
			sum += c.QuantityUsed
		}
		if sum == rec.ConsumedTotal {
			return consumptions, nil
		}

		fresh, err := u.GetByID(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		if fresh.Version == rec.Version {
			return nil, fmt.Errorf("%w: custody %s consumptions sum to %d, record says %d", ErrCustodyIntegrity, rec.ID, sum, rec.ConsumedTotal)
		}
		if attempt == listAttempts {
			return nil, fmt.Errorf("%w: custody %s kept changing while listing consumptions", ErrConcurrentUpdate, rec.ID)
		}
		rec = fresh
	}
}

// Revoke deletes a custody record that was never consumed.
func (u *CustodyUseCase) Revoke(ctx context.Context, id string) error {
	rec, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.ConsumedTotal > 0 {
		return fmt.Errorf("%w: custody %s", ErrCustodyInUse, rec.ID)
	}
	err = u.repo.Delete(ctx, rec)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		return fmt.Errorf("%w: custody %s", ErrConcurrentUpdate, rec.ID)
	}
	return custodyStoreErr("delete custody record", err)
}

// load fetches a record and refuses to act on one whose quantities are broken.
func (u *CustodyUseCase) load(ctx context.Context, id string) (entities.CustodyRecord, error) {
	rec, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	if err := rec.CheckIntegrity(); err != nil {
		return entities.CustodyRecord{}, fmt.Errorf("%w: %v", ErrCustodyIntegrity, err)
	}
	return rec, nil
}

func insufficient(rec entities.CustodyRecord, want int64) error {
	return fmt.Errorf("%w: custody %s has %d, wanted %d", ErrInsufficientCustody, rec.ID, rec.Balance(), want)
}

func overReturn(rec entities.CustodyRecord, want int64) error {
	return fmt.Errorf("%w: custody %s has %d outstanding, returning %d", ErrOverReturn, rec.ID, rec.Balance(), want)
}
