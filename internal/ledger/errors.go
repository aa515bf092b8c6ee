package ledger

import "errors"

var (
	// ErrCycleNotFound is returned when a cycle id does not reference an
	// existing billing cycle.
	ErrCycleNotFound = errors.New("billing cycle not found")

	// ErrInvalidAmount is returned for a zero or negative installment amount.
	ErrInvalidAmount = errors.New("installment amount must be positive")

	// ErrInvalidTotal is returned for a negative cycle total.
	ErrInvalidTotal = errors.New("cycle total amount must not be negative")

	// ErrFutureDate is returned when a payment is dated after today.
	// Backdated payments are allowed; future-dated ones are not.
	ErrFutureDate = errors.New("payment date must not be in the future")
)
