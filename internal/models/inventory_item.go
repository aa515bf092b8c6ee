package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem tracks installation materials (cable, routers, clamps, ...)
type InventoryItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name     string          `gorm:"type:varchar(255)" json:"name"`
	Unit     string          `gorm:"type:varchar(50)" json:"unit"` // e.g. "meter", "piece"
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `gorm:"type:decimal(15,2)" json:"unit_cost"`
}
