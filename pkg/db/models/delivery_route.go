package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryRoute is an ordered stop list for one personnel within an area.
type DeliveryRoute struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AreaID      uuid.UUID `gorm:"column:area_id;type:uuid;not null;index"`
	PersonnelID uuid.UUID `gorm:"column:personnel_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// RouteAddress is one stop on a route. SequenceNumber is strictly increasing
// within a route.
type RouteAddress struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RouteID        uuid.UUID `gorm:"column:route_id;type:uuid;not null;index"`
	AddressID      uuid.UUID `gorm:"column:address_id;type:uuid;not null"`
	SequenceNumber int       `gorm:"column:sequence_number;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
