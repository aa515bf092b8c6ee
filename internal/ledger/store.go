package ledger

import (
	"context"

	"ispdesk_echo/internal/models"
)

// CycleStore is the persistence contract the ledger depends on. Any backend
// satisfying it (GORM table, in-memory map) works without changes to ledger
// logic. Implementations must return ErrCycleNotFound from Get for unknown
// ids; every other error is treated as a store failure and propagated
// unchanged.
type CycleStore interface {
	// List returns all cycles, installments included.
	List(ctx context.Context) ([]models.BillingCycle, error)

	// Get returns the cycle with the given id, installments included.
	Get(ctx context.Context, id uint) (*models.BillingCycle, error)

	// Add persists a new cycle and assigns its id.
	Add(ctx context.Context, cycle *models.BillingCycle) error

	// Update persists the full cycle row including newly appended
	// installments.
	Update(ctx context.Context, cycle *models.BillingCycle) error

	// ByCustomer returns all cycles for one customer, installments included.
	ByCustomer(ctx context.Context, customerID uint) ([]models.BillingCycle, error)

	// DeleteByCustomer removes every cycle (and its installments) belonging
	// to the customer. Used only for the cascading delete when a customer is
	// purged.
	DeleteByCustomer(ctx context.Context, customerID uint) error
}
