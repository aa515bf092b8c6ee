package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment records one discrete payment event against a billing cycle.
// The ID is a UUID generated by the ledger when the payment is recorded.
// DatePaid may be backdated by staff entering an old cash receipt;
// CreatedAt is when the record entered the system.
type Installment struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BillingCycleID uint            `gorm:"index" json:"billing_cycle_id"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount_paid"`
	DatePaid       time.Time       `gorm:"type:date" json:"date_paid"`
	Note           string          `gorm:"type:text" json:"note"`
}
