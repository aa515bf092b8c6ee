package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CycleStatus is the persisted payment status of a billing cycle.
// "clear" means nothing is pending; everything else is "pending".
// Overdue/expired is a display-only notion derived from dates, never stored.
type CycleStatus string

const (
	CycleStatusPending CycleStatus = "pending"
	CycleStatusClear   CycleStatus = "clear"
)

// BillingCycle represents one subscription period for one customer.
//
// TotalAmount, CycleStartDate and CycleEndDate are fixed at creation.
// AmountPaid, AmountPending and Status are owned by the ledger service and
// recomputed on every installment; nothing else may write them.
type BillingCycle struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CustomerID     uint      `gorm:"index" json:"customer_id"`
	CycleStartDate time.Time `gorm:"type:date" json:"cycle_start_date"`
	CycleEndDate   time.Time `gorm:"type:date" json:"cycle_end_date"`

	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_amount"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_paid"`
	AmountPending decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_pending"`
	Status        CycleStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`

	IsRenewal bool `gorm:"default:false" json:"is_renewal"`

	// Carried-debt bookkeeping between consecutive cycles. Supplied by
	// callers when a renewal rolls unpaid balance forward; the ledger
	// stores these untouched and never computes them.
	PreviousBalance *decimal.Decimal `gorm:"type:decimal(15,2)" json:"previous_balance,omitempty"`
	ShiftedAmount   *decimal.Decimal `gorm:"type:decimal(15,2)" json:"shifted_amount,omitempty"`

	// Breakdown holds caller-attached invoice detail (discounts, material
	// charges). Opaque to the ledger.
	Breakdown map[string]interface{} `gorm:"serializer:json" json:"breakdown,omitempty"`

	// Relationships
	Customer     Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Installments []Installment `gorm:"foreignKey:BillingCycleID" json:"installments"`
}
