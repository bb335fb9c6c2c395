package commissions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

// Repository defines persistence operations for commission processing.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveDeliverers(ctx context.Context) ([]models.User, error)
	ExistsPaymentForPeriod(ctx context.Context, personnelID uuid.UUID, month, year int) (bool, error)
	SumDeliveredValue(ctx context.Context, personnelID uuid.UUID, areaIDs []uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	CreatePayment(ctx context.Context, payment *models.DelivererPayment) (*models.DelivererPayment, error)
}
