package interfaces

import (
	"carwash_payouts/internal/domain/entities"
	"context"
)

// SnapshotGuard lists the versions a payment request snapshot was computed from.
// CreatePending fails with ErrVersionConflict if any of them moved.
type SnapshotGuard struct {
	EarningsVersion int64
	CustodyVersions map[string]int64
}

// IPaymentRequestRepository abstracts persistence for payment requests.
//
// The repository keeps a per-worker pending lock so that at most one pending
// request exists per worker regardless of how many creators race.

type IPaymentRequestRepository interface {
	CreatePending(ctx context.Context, p entities.PaymentRequest, guard SnapshotGuard) (entities.PaymentRequest, error)
	GetByID(ctx context.Context, id string) (entities.PaymentRequest, error)
	GetPendingByWorker(ctx context.Context, workerID string) (entities.PaymentRequest, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.PaymentRequest, error)
	// Transition writes p (already carrying the new status) only if the stored
	// request is still in status from at version p.Version.
	Transition(ctx context.Context, p entities.PaymentRequest, from entities.PaymentRequestStatus) (entities.PaymentRequest, error)
	// Approve moves a pending request to approved, releases the worker lock and
	// adds the requested amount to the account's reserved total in the same
	// transaction. It fails with ErrVersionConflict if the request left pending
	// or the earnings account is no longer at earningsVersion.
	Approve(ctx context.Context, p entities.PaymentRequest, earningsVersion int64) (entities.PaymentRequest, error)
	// MarkPaid moves a paying request to paid and moves its amount from the
	// account's reserved total to its paid-out total in the same transaction.
	MarkPaid(ctx context.Context, p entities.PaymentRequest) (entities.PaymentRequest, error)
	// DeletePending removes a pending request and releases the worker lock.
	DeletePending(ctx context.Context, p entities.PaymentRequest) error
}
