package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense records an operational expense of the business
type Expense struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Date     time.Time       `gorm:"type:date;index" json:"date"`
	Category string          `gorm:"type:varchar(100)" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Note     string          `gorm:"type:text" json:"note"`
}
