// Package memory is a mutex-guarded store implementing the repository
// interfaces. It backs local development (STORE_BACKEND=memory) and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"carwash_payouts/internal/domain/entities"
)

// Store holds every table behind one lock, so multi-entity writes such as
// creating a payment request against a snapshot are atomic.
type Store struct {
	mu           sync.Mutex
	custody      map[string]entities.CustodyRecord
	consumptions map[string][]entities.ConsumptionRecord
	accounts     map[string]entities.EarningsAccount
	credits      map[string]entities.EarningsCredit
	requests     map[string]entities.PaymentRequest
	pending      map[string]string
	jobs         map[string]entities.Job
}

func NewStore() *Store {
	return &Store{
		custody:      map[string]entities.CustodyRecord{},
		consumptions: map[string][]entities.ConsumptionRecord{},
		accounts:     map[string]entities.EarningsAccount{},
		credits:      map[string]entities.EarningsCredit{},
		requests:     map[string]entities.PaymentRequest{},
		pending:      map[string]string{},
		jobs:         map[string]entities.Job{},
	}
}

func (s *Store) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	return nil
}

func sortCustody(items []entities.CustodyRecord) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
