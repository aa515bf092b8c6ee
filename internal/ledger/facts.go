package ledger

import (
	"time"

	"ispdesk_echo/internal/models"
)

// CycleFacts is the billing truth for one cycle: is it over, and is money
// still owed. Every screen that filters or counts customers derives from
// this, never from inline date comparisons, so dashboard counts and list
// filters can never disagree.
type CycleFacts struct {
	Expired  bool `json:"expired"`
	Unpaid   bool `json:"unpaid"`
	DaysLeft *int `json:"days_left"` // nil when there is no cycle
}

// Facts evaluates a cycle against the current local date
func Facts(cycle *models.BillingCycle) CycleFacts {
	return FactsAt(cycle, Today())
}

// FactsAt evaluates a cycle against an explicit "today". A nil cycle yields
// the zero facts: not expired, not unpaid, no days-left value.
func FactsAt(cycle *models.BillingCycle, today time.Time) CycleFacts {
	if cycle == nil {
		return CycleFacts{}
	}
	daysLeft := DaysBetween(today, cycle.CycleEndDate)
	return CycleFacts{
		Expired:  daysLeft < 0,
		Unpaid:   cycle.AmountPending.Sign() > 0,
		DaysLeft: &daysLeft,
	}
}

// DisplayStatus is the five-valued label staff see for a customer. It
// combines the manually set account status with the cycle facts; it is
// recomputed fresh on every call and never stored.
type DisplayStatus string

const (
	DisplayStatusSuspended DisplayStatus = "suspended"
	DisplayStatusPending   DisplayStatus = "pending"
	DisplayStatusExpired   DisplayStatus = "expired"
	DisplayStatusRenewal   DisplayStatus = "renewal"
	DisplayStatusClear     DisplayStatus = "clear"
)

// ComputeDisplayStatus derives the display label from the customer's manual
// status and their latest cycle, evaluated against the current local date.
func ComputeDisplayStatus(manual models.CustomerStatus, cycle *models.BillingCycle) DisplayStatus {
	return ComputeDisplayStatusAt(manual, cycle, Today())
}

// ComputeDisplayStatusAt is ComputeDisplayStatus with an explicit "today".
//
// Manual suspension always wins the displayed label, regardless of billing
// facts. A customer without any cycle shows pending (needs initial setup).
// Otherwise: expired+unpaid -> expired, expired+paid -> renewal (needs a
// new cycle started), mid-cycle+unpaid -> pending, mid-cycle+paid -> clear.
func ComputeDisplayStatusAt(manual models.CustomerStatus, cycle *models.BillingCycle, today time.Time) DisplayStatus {
	if manual == models.CustomerStatusSuspended {
		return DisplayStatusSuspended
	}
	if cycle == nil {
		return DisplayStatusPending
	}

	facts := FactsAt(cycle, today)
	switch {
	case facts.Expired && facts.Unpaid:
		return DisplayStatusExpired
	case facts.Expired:
		return DisplayStatusRenewal
	case facts.Unpaid:
		return DisplayStatusPending
	default:
		return DisplayStatusClear
	}
}
