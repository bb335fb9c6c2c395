package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

// Repository defines persistence operations for payment reconciliation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBill(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	NextReceiptSequence(ctx context.Context, month, year int) (int, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	UpdateBill(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
