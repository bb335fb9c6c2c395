package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// SubscriptionChangeRequest is a customer-submitted proposal awaiting a
// manager decision. A "new" request is created together with its holding
// subscription row, so SubscriptionID is always set.
type SubscriptionChangeRequest struct {
	ID                  uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID          uuid.UUID                 `gorm:"column:customer_id;type:uuid;not null;index"`
	SubscriptionID      uuid.UUID                 `gorm:"column:subscription_id;type:uuid;not null;index"`
	PublicationID       uuid.UUID                 `gorm:"column:publication_id;type:uuid;not null"`
	RequestType         enums.ChangeRequestType   `gorm:"column:request_type;type:change_request_type;not null"`
	Status              enums.ChangeRequestStatus `gorm:"column:status;type:change_request_status;not null;default:'pending'"`
	EffectiveDate       time.Time                 `gorm:"column:effective_date;not null"`
	NewQuantity         *int                      `gorm:"column:new_quantity"`
	NewAddressID        *uuid.UUID                `gorm:"column:new_address_id;type:uuid"`
	DeliveryPreferences *string                   `gorm:"column:delivery_preferences"`
	Comments            *string                   `gorm:"column:comments"`
	ProcessedBy         *uuid.UUID                `gorm:"column:processed_by;type:uuid"`
	ProcessedAt         *time.Time                `gorm:"column:processed_at"`
	CreatedAt           time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
