package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// PaymentReminder is a notice of overdue balance. At most one reminder of a
// type may exist per bill inside the cooldown window.
type PaymentReminder struct {
	ID             uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BillID         uuid.UUID                    `gorm:"column:bill_id;type:uuid;not null;index"`
	CustomerID     uuid.UUID                    `gorm:"column:customer_id;type:uuid;not null"`
	ReminderType   enums.ReminderType           `gorm:"column:reminder_type;type:reminder_type;not null;default:'overdue'"`
	DeliveryMethod enums.ReminderDeliveryMethod `gorm:"column:delivery_method;type:reminder_delivery_method;not null"`
	Status         enums.ReminderStatus         `gorm:"column:status;type:reminder_status;not null;default:'pending'"`
	ReminderDate   time.Time                    `gorm:"column:reminder_date;not null"`
	CreatedAt      time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
