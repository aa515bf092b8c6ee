package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerStatus is the manually managed account status.
// It is independent of billing facts; staff toggle it to cut off a line.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "active"
	CustomerStatusSuspended CustomerStatus = "suspended"
)

// Customer represents a subscriber of the ISP
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name    string `gorm:"type:varchar(255)" json:"name"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Address string `gorm:"type:text" json:"address"`

	PackageID *uint          `gorm:"index" json:"package_id"`
	Status    CustomerStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Relationships
	Package *Package       `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Cycles  []BillingCycle `gorm:"foreignKey:CustomerID" json:"cycles,omitempty"`
}
