package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// BillingRunCompletedEvent summarizes a monthly billing run.
type BillingRunCompletedEvent struct {
	AreaID      uuid.UUID       `json:"area_id"`
	BillMonth   int             `json:"bill_month"`
	BillYear    int             `json:"bill_year"`
	BillCount   int             `json:"bill_count"`
	TotalBilled decimal.Decimal `json:"total_billed"`
	CompletedAt time.Time       `json:"completed_at"`
}

// ReminderCreatedEvent tells the notification dispatcher to deliver a payment
// reminder over the chosen channel.
type ReminderCreatedEvent struct {
	ReminderID     uuid.UUID                    `json:"reminder_id"`
	BillID         uuid.UUID                    `json:"bill_id"`
	BillNumber     string                       `json:"bill_number"`
	CustomerID     uuid.UUID                    `json:"customer_id"`
	Outstanding    decimal.Decimal              `json:"outstanding"`
	DueDate        time.Time                    `json:"due_date"`
	DeliveryMethod enums.ReminderDeliveryMethod `json:"delivery_method"`
}

// ScheduleCreatedEvent is emitted when a deliverer's daily run sheet is
// materialized.
type ScheduleCreatedEvent struct {
	ScheduleID   uuid.UUID `json:"schedule_id"`
	PersonnelID  uuid.UUID `json:"personnel_id"`
	AreaID       uuid.UUID `json:"area_id"`
	ScheduleDate time.Time `json:"schedule_date"`
	ItemCount    int       `json:"item_count"`
}

// CommissionProcessedEvent reports a deliverer's monthly commission payout.
type CommissionProcessedEvent struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	PersonnelID uuid.UUID       `json:"personnel_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Amount      decimal.Decimal `json:"amount"`
}
