package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ispdesk_echo/internal/models"
)

// Service is the billing-cycle ledger. It is the sole owner of AmountPaid,
// AmountPending and Status on every cycle: all mutation routes through
// CreateInitialCycle, RenewCycle, AddInstallment or the metadata escape
// hatch, which cannot touch financial fields.
type Service struct {
	store CycleStore

	// Per-cycle locks serialize the read-modify-write in AddInstallment so
	// the sum-of-installments invariant holds under concurrent callers.
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewService creates a ledger service backed by the given store
func NewService(store CycleStore) *Service {
	return &Service{
		store: store,
		locks: make(map[uint]*sync.Mutex),
	}
}

// CreateInitialCycle opens the first billing cycle for a customer at signup.
// The end date is always startDate + CycleLengthDays; totalAmount is the
// locked-in package price, already adjusted by the caller for discounts or
// material surcharges. Exactly one new cycle row is created; no other cycle
// is touched.
func (s *Service) CreateInitialCycle(ctx context.Context, customerID uint, startDate time.Time, totalAmount decimal.Decimal) (*models.BillingCycle, error) {
	return s.newCycle(ctx, customerID, startDate, totalAmount, false)
}

// RenewCycle opens a follow-up cycle for a customer. Construction is
// identical to CreateInitialCycle except the renewal flag. The ledger does
// not inspect, close or mutate any prior cycle: carrying unpaid balance
// forward is the caller's computation, passed in as part of totalAmount.
func (s *Service) RenewCycle(ctx context.Context, customerID uint, startDate time.Time, totalAmount decimal.Decimal) (*models.BillingCycle, error) {
	return s.newCycle(ctx, customerID, startDate, totalAmount, true)
}

func (s *Service) newCycle(ctx context.Context, customerID uint, startDate time.Time, totalAmount decimal.Decimal, isRenewal bool) (*models.BillingCycle, error) {
	if totalAmount.IsNegative() {
		return nil, ErrInvalidTotal
	}

	start := AddDays(startDate, 0) // truncate to local midnight

	status := models.CycleStatusPending
	if totalAmount.IsZero() {
		status = models.CycleStatusClear
	}

	cycle := &models.BillingCycle{
		CustomerID:     customerID,
		CycleStartDate: start,
		CycleEndDate:   AddDays(start, CycleLengthDays),
		TotalAmount:    totalAmount,
		AmountPaid:     decimal.Zero,
		AmountPending:  totalAmount,
		Status:         status,
		IsRenewal:      isRenewal,
		Installments:   []models.Installment{},
	}

	if err := s.store.Add(ctx, cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

// AddInstallment records one payment against a cycle and recomputes the
// derived money fields. AmountPaid is recomputed as the full sum of all
// installments rather than incremented, AmountPending is clamped at zero
// (over-payments are recorded, not rejected), and Status flips to clear
// exactly when nothing is pending.
//
// Calling twice with the same arguments records two separate payments;
// duplicate real-world payments are a data-entry concern, not a ledger one.
func (s *Service) AddInstallment(ctx context.Context, cycleID uint, amount decimal.Decimal, datePaid time.Time, note string) (*models.BillingCycle, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if AddDays(datePaid, 0).After(Today()) {
		return nil, ErrFutureDate
	}

	lock := s.cycleLock(cycleID)
	lock.Lock()
	defer lock.Unlock()

	cycle, err := s.store.Get(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	cycle.Installments = append(cycle.Installments, models.Installment{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now(),
		BillingCycleID: cycle.ID,
		AmountPaid:     amount,
		DatePaid:       AddDays(datePaid, 0),
		Note:           note,
	})

	recompute(cycle)

	if err := s.store.Update(ctx, cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

// recompute rebuilds the derived money fields from installment facts
func recompute(cycle *models.BillingCycle) {
	paid := decimal.Zero
	for _, inst := range cycle.Installments {
		paid = paid.Add(inst.AmountPaid)
	}

	pending := cycle.TotalAmount.Sub(paid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	cycle.AmountPaid = paid
	cycle.AmountPending = pending
	if pending.IsZero() {
		cycle.Status = models.CycleStatusClear
	} else {
		cycle.Status = models.CycleStatusPending
	}
}

// ActiveCycle returns the customer's cycle with the most recent start date,
// ties broken by highest id. "Active" means latest, not unexpired: a
// customer whose only cycle ran out still gets that cycle back until a
// renewal creates a newer one. Returns nil when the customer has no cycles.
func (s *Service) ActiveCycle(ctx context.Context, customerID uint) (*models.BillingCycle, error) {
	cycles, err := s.CyclesForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(cycles) == 0 {
		return nil, nil
	}
	return &cycles[0], nil
}

// CyclesForCustomer returns all of a customer's cycles ordered by start
// date descending, most recent first.
func (s *Service) CyclesForCustomer(ctx context.Context, customerID uint) ([]models.BillingCycle, error) {
	cycles, err := s.store.ByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		if !cycles[i].CycleStartDate.Equal(cycles[j].CycleStartDate) {
			return cycles[i].CycleStartDate.After(cycles[j].CycleStartDate)
		}
		return cycles[i].ID > cycles[j].ID
	})
	return cycles, nil
}

// Cycle returns one cycle by id
func (s *Service) Cycle(ctx context.Context, cycleID uint) (*models.BillingCycle, error) {
	return s.store.Get(ctx, cycleID)
}

// CycleMetadata is the non-financial patch accepted by PatchMetadata
type CycleMetadata struct {
	PreviousBalance *decimal.Decimal
	ShiftedAmount   *decimal.Decimal
	Breakdown       map[string]interface{}
}

// PatchMetadata is the escape hatch for callers to attach carried-balance
// bookkeeping and invoice breakdowns to a cycle. Only opaque pass-through
// fields are writable here; dates, totals and the derived money fields
// cannot be reached.
func (s *Service) PatchMetadata(ctx context.Context, cycleID uint, meta CycleMetadata) (*models.BillingCycle, error) {
	lock := s.cycleLock(cycleID)
	lock.Lock()
	defer lock.Unlock()

	cycle, err := s.store.Get(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	if meta.PreviousBalance != nil {
		cycle.PreviousBalance = meta.PreviousBalance
	}
	if meta.ShiftedAmount != nil {
		cycle.ShiftedAmount = meta.ShiftedAmount
	}
	if meta.Breakdown != nil {
		cycle.Breakdown = meta.Breakdown
	}

	if err := s.store.Update(ctx, cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

// DeleteCyclesForCustomer removes every cycle for the customer. This only
// runs as a side effect of permanently deleting the customer; no ledger
// operation deletes cycles on its own.
func (s *Service) DeleteCyclesForCustomer(ctx context.Context, customerID uint) error {
	return s.store.DeleteByCustomer(ctx, customerID)
}

func (s *Service) cycleLock(cycleID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[cycleID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[cycleID] = lock
	}
	return lock
}
