package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/pkg/enums"
)

// DeliverySchedule is a personnel's route assignment for one date. The
// (personnel, schedule date) pair is unique.
type DeliverySchedule struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PersonnelID  uuid.UUID            `gorm:"column:personnel_id;type:uuid;not null;index"`
	RouteID      uuid.UUID            `gorm:"column:route_id;type:uuid;not null"`
	AreaID       uuid.UUID            `gorm:"column:area_id;type:uuid;not null;index"`
	ScheduleDate time.Time            `gorm:"column:schedule_date;type:date;not null"`
	Status       enums.ScheduleStatus `gorm:"column:status;type:schedule_status;not null;default:'pending'"`
	Notes        *string              `gorm:"column:notes"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
