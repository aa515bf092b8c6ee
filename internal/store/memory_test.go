package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
)

func newCycle(customerID uint) *models.BillingCycle {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)
	return &models.BillingCycle{
		CustomerID:     customerID,
		CycleStartDate: start,
		CycleEndDate:   ledger.AddDays(start, ledger.CycleLengthDays),
		TotalAmount:    decimal.RequireFromString("1000"),
		AmountPending:  decimal.RequireFromString("1000"),
		Status:         models.CycleStatusPending,
	}
}

func TestMemoryStoreAutoIncrement(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := newCycle(1)
	second := newCycle(1)
	if err := s.Add(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, second); err != nil {
		t.Fatal(err)
	}

	if first.ID == 0 || second.ID == 0 {
		t.Fatal("Add must assign ids")
	}
	if second.ID <= first.ID {
		t.Errorf("ids not increasing: %d then %d", first.ID, second.ID)
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), 123); !errors.Is(err, ledger.ErrCycleNotFound) {
		t.Errorf("err = %v; want ErrCycleNotFound", err)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	cycle := newCycle(1)
	if err := s.Add(ctx, cycle); err != nil {
		t.Fatal(err)
	}

	// Mutating a fetched row must not leak back into the store.
	fetched, err := s.Get(ctx, cycle.ID)
	if err != nil {
		t.Fatal(err)
	}
	fetched.Installments = append(fetched.Installments, models.Installment{ID: "rogue"})
	fetched.Status = models.CycleStatusClear

	again, err := s.Get(ctx, cycle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Installments) != 0 || again.Status != models.CycleStatusPending {
		t.Error("store state was mutated through a fetched copy")
	}
}

func TestMemoryStoreByCustomerAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, customerID := range []uint{1, 1, 2} {
		if err := s.Add(ctx, newCycle(customerID)); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := s.ByCustomer(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Fatalf("ByCustomer(1) returned %d cycles; want 2", len(mine))
	}

	if err := s.DeleteByCustomer(ctx, 1); err != nil {
		t.Fatal(err)
	}
	mine, err = s.ByCustomer(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 0 {
		t.Errorf("cycles remain after DeleteByCustomer: %d", len(mine))
	}

	others, err := s.ByCustomer(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(others) != 1 {
		t.Errorf("other customer's cycles affected; got %d", len(others))
	}
}

func TestMemoryStoreUpdateUnknown(t *testing.T) {
	s := NewMemoryStore()
	cycle := newCycle(1)
	cycle.ID = 77
	if err := s.Update(context.Background(), cycle); !errors.Is(err, ledger.ErrCycleNotFound) {
		t.Errorf("err = %v; want ErrCycleNotFound", err)
	}
}
