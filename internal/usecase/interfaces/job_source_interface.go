package interfaces

import (
	"carwash_payouts/internal/domain/entities"
	"context"
)

// IJobSource reads check-ins from the dispatch side.
//
// Line items come back with the commission percentage that was frozen when the
// job was completed. A missing job is returned as a zero-value Job (empty ID).

type IJobSource interface {
	GetCompletedJob(ctx context.Context, jobID string) (entities.Job, error)
}
