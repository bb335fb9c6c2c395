package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// Payment is money applied against exactly one bill.
type Payment struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BillID         uuid.UUID           `gorm:"column:bill_id;type:uuid;not null;index"`
	Amount         decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method         enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	ReceiptNumber  string              `gorm:"column:receipt_number;not null;unique"`
	SequenceNumber int                 `gorm:"column:sequence_number;not null"`
	Reference      *string             `gorm:"column:reference"`
	ReceivedBy     *uuid.UUID          `gorm:"column:received_by;type:uuid"`
	PaidAt         time.Time           `gorm:"column:paid_at;not null"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
