package memory

import (
	"context"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
)

// JobSource serves jobs put into the store. In production jobs are owned by
// the dispatch side and read from DynamoDB.
type JobSource struct {
	s *Store
}

var _ interfaces.IJobSource = (*JobSource)(nil)

func NewJobSource(s *Store) *JobSource {
	return &JobSource{s: s}
}

func (j *JobSource) Put(job entities.Job) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	j.s.jobs[job.ID] = job
}

func (j *JobSource) GetCompletedJob(ctx context.Context, jobID string) (entities.Job, error) {
	if err := j.s.lock(ctx); err != nil {
		return entities.Job{}, err
	}
	defer j.s.mu.Unlock()
	return j.s.jobs[jobID], nil
}
