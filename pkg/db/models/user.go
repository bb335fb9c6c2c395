package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// User is any person known to the platform: manager, deliverer or customer.
// Credential material lives with the upstream identity provider, not here.
type User struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Email          string           `gorm:"column:email;not null;unique"`
	Phone          *string          `gorm:"column:phone"`
	Role           enums.UserRole   `gorm:"column:role;type:user_role;not null"`
	NotifyByEmail  bool             `gorm:"column:notify_by_email;not null;default:false"`
	CommissionRate *decimal.Decimal `gorm:"column:commission_rate;type:numeric(5,2)"`
	Active         bool             `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
