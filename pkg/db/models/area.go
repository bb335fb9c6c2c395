package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/newsroute/newsroute-backend/pkg/db/types"
)

// Area is the geographic/administrative partition that bounds which staff
// may act on which customers.
type Area struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	City         string              `gorm:"column:city;not null"`
	State        string              `gorm:"column:state;not null"`
	PostalCodes  dbtypes.StringArray `gorm:"column:postal_codes;type:text[]"`
	ManagerIDs   dbtypes.UUIDArray   `gorm:"column:manager_ids;type:uuid[]"`
	DelivererIDs dbtypes.UUIDArray   `gorm:"column:deliverer_ids;type:uuid[]"`
	Active       bool                `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ManagedBy reports whether the given user appears in the area's manager list.
func (a Area) ManagedBy(userID uuid.UUID) bool {
	for _, id := range a.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DeliveredBy reports whether the given user appears in the area's deliverer list.
func (a Area) DeliveredBy(userID uuid.UUID) bool {
	for _, id := range a.DelivererIDs {
		if id == userID {
			return true
		}
	}
	return false
}
