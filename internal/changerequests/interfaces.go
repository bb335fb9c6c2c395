package changerequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

// Repository defines persistence operations for change requests and the
// subscriptions they mutate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateChangeRequest(ctx context.Context, request *models.SubscriptionChangeRequest) (*models.SubscriptionChangeRequest, error)
	CreateSubscription(ctx context.Context, subscription *models.Subscription) (*models.Subscription, error)
	FindChangeRequest(ctx context.Context, id uuid.UUID) (*models.SubscriptionChangeRequest, error)
	FindSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	FindAddress(ctx context.Context, id uuid.UUID) (*models.Address, error)
	FindDefaultAddress(ctx context.Context, customerID uuid.UUID) (*models.Address, error)
	FindPublication(ctx context.Context, id uuid.UUID) (*models.Publication, error)
	UpdateChangeRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateSubscription(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
