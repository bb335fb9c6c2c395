package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// DelivererPayment is the commission payout for one personnel and period.
// At most one payment exists per (personnel, month, year).
type DelivererPayment struct {
	ID             uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PersonnelID    uuid.UUID                    `gorm:"column:personnel_id;type:uuid;not null;index"`
	Month          int                          `gorm:"column:month;not null"`
	Year           int                          `gorm:"column:year;not null"`
	Amount         decimal.Decimal              `gorm:"column:amount;type:numeric(12,2);not null"`
	CommissionRate decimal.Decimal              `gorm:"column:commission_rate;type:numeric(5,2);not null"`
	Status         enums.DelivererPaymentStatus `gorm:"column:status;type:deliverer_payment_status;not null;default:'pending'"`
	CreatedAt      time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}
