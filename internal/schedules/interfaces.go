package schedules

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

// Repository defines persistence operations for schedule materialization.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPersonnel(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindRoute(ctx context.Context, id uuid.UUID) (*models.DeliveryRoute, error)
	ExistsScheduleForDate(ctx context.Context, personnelID uuid.UUID, date time.Time) (bool, error)
	FindActiveSubscriptions(ctx context.Context, areaID uuid.UUID) ([]models.Subscription, error)
	CreateSchedule(ctx context.Context, schedule *models.DeliverySchedule) (*models.DeliverySchedule, error)
	CreateDeliveryItems(ctx context.Context, items []models.DeliveryItem) error
	FindSchedule(ctx context.Context, id uuid.UUID) (*models.DeliverySchedule, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.DeliveryItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateSchedule(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountUnresolvedItems(ctx context.Context, scheduleID uuid.UUID) (int64, error)
}
