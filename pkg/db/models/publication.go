package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Publication is a deliverable title with a per-unit price in the business's
// base currency.
type Publication struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AreaID    uuid.UUID       `gorm:"column:area_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Frequency string          `gorm:"column:frequency;not null;default:'daily'"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Active    bool            `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
