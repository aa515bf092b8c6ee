package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Package represents an internet package offered to subscribers.
// Its price is locked into a billing cycle at cycle creation, so editing
// a package never changes money already owed.
type Package struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name      string          `gorm:"type:varchar(255)" json:"name"`
	SpeedMbps int             `json:"speed_mbps"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2)" json:"price"`

	// Relationships
	Customers []Customer `gorm:"foreignKey:PackageID" json:"customers,omitempty"`
}
