package reminders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

// Repository defines persistence operations for the reminder throttler.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOverdueBills(ctx context.Context, areaIDs []uuid.UUID, asOf time.Time) ([]models.Bill, error)
	FindCustomers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
	LastReminderAt(ctx context.Context, billID uuid.UUID) (*time.Time, error)
	CreateReminder(ctx context.Context, reminder *models.PaymentReminder) (*models.PaymentReminder, error)
}
