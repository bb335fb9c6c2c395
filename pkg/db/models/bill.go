package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// Bill is the monthly invoice for one customer in one area. Exactly one bill
// may exist per (customer, area, month, year).
type Bill struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID        uuid.UUID        `gorm:"column:customer_id;type:uuid;not null;index"`
	AreaID            uuid.UUID        `gorm:"column:area_id;type:uuid;not null;index"`
	BillNumber        string           `gorm:"column:bill_number;not null;unique"`
	SequenceNumber    int              `gorm:"column:sequence_number;not null"`
	BillMonth         int              `gorm:"column:bill_month;not null"`
	BillYear          int              `gorm:"column:bill_year;not null"`
	TotalAmount       decimal.Decimal  `gorm:"column:total_amount;type:numeric(12,2);not null"`
	OutstandingAmount decimal.Decimal  `gorm:"column:outstanding_amount;type:numeric(12,2);not null"`
	Status            enums.BillStatus `gorm:"column:status;type:bill_status;not null;default:'unpaid'"`
	DueDate           time.Time        `gorm:"column:due_date;not null"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
