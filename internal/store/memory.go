package store

import (
	"context"
	"sync"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
)

// MemoryStore is an in-memory CycleStore. It backs the ledger tests and
// works as a real backend for throwaway environments. Rows are copied on
// the way in and out so callers never alias the stored state.
type MemoryStore struct {
	mu     sync.RWMutex
	cycles map[uint]models.BillingCycle
	nextID uint
}

// NewMemoryStore creates an empty in-memory cycle store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cycles: make(map[uint]models.BillingCycle),
		nextID: 1,
	}
}

func (s *MemoryStore) List(_ context.Context) ([]models.BillingCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.BillingCycle, 0, len(s.cycles))
	for _, cycle := range s.cycles {
		result = append(result, cloneCycle(cycle))
	}
	return result, nil
}

func (s *MemoryStore) Get(_ context.Context, id uint) (*models.BillingCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cycle, ok := s.cycles[id]
	if !ok {
		return nil, ledger.ErrCycleNotFound
	}
	clone := cloneCycle(cycle)
	return &clone, nil
}

func (s *MemoryStore) Add(_ context.Context, cycle *models.BillingCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle.ID = s.nextID
	s.nextID++
	for i := range cycle.Installments {
		cycle.Installments[i].BillingCycleID = cycle.ID
	}
	s.cycles[cycle.ID] = cloneCycle(*cycle)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, cycle *models.BillingCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cycles[cycle.ID]; !ok {
		return ledger.ErrCycleNotFound
	}
	s.cycles[cycle.ID] = cloneCycle(*cycle)
	return nil
}

func (s *MemoryStore) ByCustomer(_ context.Context, customerID uint) ([]models.BillingCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.BillingCycle, 0)
	for _, cycle := range s.cycles {
		if cycle.CustomerID == customerID {
			result = append(result, cloneCycle(cycle))
		}
	}
	return result, nil
}

func (s *MemoryStore) DeleteByCustomer(_ context.Context, customerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cycle := range s.cycles {
		if cycle.CustomerID == customerID {
			delete(s.cycles, id)
		}
	}
	return nil
}

// cloneCycle deep-copies the slices and maps hanging off a cycle row
func cloneCycle(cycle models.BillingCycle) models.BillingCycle {
	clone := cycle

	clone.Installments = make([]models.Installment, len(cycle.Installments))
	copy(clone.Installments, cycle.Installments)

	if cycle.PreviousBalance != nil {
		prev := *cycle.PreviousBalance
		clone.PreviousBalance = &prev
	}
	if cycle.ShiftedAmount != nil {
		shifted := *cycle.ShiftedAmount
		clone.ShiftedAmount = &shifted
	}
	if cycle.Breakdown != nil {
		clone.Breakdown = make(map[string]interface{}, len(cycle.Breakdown))
		for k, v := range cycle.Breakdown {
			clone.Breakdown[k] = v
		}
	}
	return clone
}
