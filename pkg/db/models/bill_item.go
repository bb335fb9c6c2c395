package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillItem is one subscription's line on a bill. TotalPrice is always
// Quantity x UnitPrice and the sum of a bill's items equals the bill total.
type BillItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BillID         uuid.UUID       `gorm:"column:bill_id;type:uuid;not null;index"`
	SubscriptionID uuid.UUID       `gorm:"column:subscription_id;type:uuid;not null"`
	PublicationID  uuid.UUID       `gorm:"column:publication_id;type:uuid;not null"`
	Quantity       int             `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice     decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	PeriodFrom     time.Time       `gorm:"column:period_from;not null"`
	PeriodTo       time.Time       `gorm:"column:period_to;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
