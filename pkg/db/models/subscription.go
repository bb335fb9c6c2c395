package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// Subscription is the anchor entity: a standing order for a publication at an
// address. Bills, bill items and delivery items all derive from it.
type Subscription struct {
	ID                  uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID          uuid.UUID                `gorm:"column:customer_id;type:uuid;not null;index"`
	PublicationID       uuid.UUID                `gorm:"column:publication_id;type:uuid;not null;index"`
	AddressID           uuid.UUID                `gorm:"column:address_id;type:uuid;not null"`
	AreaID              uuid.UUID                `gorm:"column:area_id;type:uuid;not null;index"`
	DelivererID         *uuid.UUID               `gorm:"column:deliverer_id;type:uuid"`
	Quantity            int                      `gorm:"column:quantity;not null;default:1"`
	Status              enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'pending'"`
	DeliveryPreferences *string                  `gorm:"column:delivery_preferences"`
	StartDate           *time.Time               `gorm:"column:start_date"`
	EndDate             *time.Time               `gorm:"column:end_date"`
	CreatedAt           time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
