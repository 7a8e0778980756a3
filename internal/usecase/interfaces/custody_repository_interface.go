package interfaces

import (
	"carwash_payouts/internal/domain/entities"
	"context"
)

// ICustodyRepository abstracts persistence for custody and consumption records.
//
// Mutating methods take the record as it was read. The write only succeeds when
// the stored version still equals rec.Version; the stored version is then
// rec.Version+1. Losers get ErrVersionConflict and nothing is written.

type ICustodyRepository interface {
	Create(ctx context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error)
	GetByID(ctx context.Context, id string) (entities.CustodyRecord, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.CustodyRecord, error)
	// ApplyConsumption writes rec and inserts c in one atomic step.
	ApplyConsumption(ctx context.Context, rec entities.CustodyRecord, c entities.ConsumptionRecord) (entities.CustodyRecord, error)
	ApplyReturn(ctx context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error)
	ListConsumptions(ctx context.Context, custodyRecordID string) ([]entities.ConsumptionRecord, error)
	// Delete removes the record only if it is unchanged and has no consumptions.
	Delete(ctx context.Context, rec entities.CustodyRecord) error
}
