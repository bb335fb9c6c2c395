package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// DeliveryItem is one unit of delivery work derived from a subscription.
// Created once per (schedule, subscription); resolution is terminal.
type DeliveryItem struct {
	ID             uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ScheduleID     uuid.UUID                `gorm:"column:schedule_id;type:uuid;not null;index"`
	SubscriptionID uuid.UUID                `gorm:"column:subscription_id;type:uuid;not null"`
	Quantity       int                      `gorm:"column:quantity;not null"`
	Status         enums.DeliveryItemStatus `gorm:"column:status;type:delivery_item_status;not null;default:'pending'"`
	DeliveredAt    *time.Time               `gorm:"column:delivered_at"`
	PhotoProof     *string                  `gorm:"column:photo_proof"`
	Notes          *string                  `gorm:"column:notes"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
