package interfaces

import (
	"carwash_payouts/internal/domain/entities"
	"context"
)

// IEarningsRepository abstracts the earnings accumulator store.
//
// ApplyCredit inserts the credit and adds its amount to the worker's lifetime
// total in one transactional increment. A credit whose ID already exists is
// rejected with ErrAlreadyExists and the total is left untouched.

type IEarningsRepository interface {
	GetAccount(ctx context.Context, workerID string) (entities.EarningsAccount, error)
	ApplyCredit(ctx context.Context, credit entities.EarningsCredit) (entities.EarningsAccount, error)
	GetCredit(ctx context.Context, id string) (entities.EarningsCredit, error)
}
