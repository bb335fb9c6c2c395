package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

// Repository defines the lookups the guard needs. Pure reads, no writes.
type Repository interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindAreasByManager(ctx context.Context, userID uuid.UUID) ([]models.Area, error)
	FindAreasByDeliverer(ctx context.Context, userID uuid.UUID) ([]models.Area, error)
	FindAreasByCustomer(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error)
	ListActiveAreaIDs(ctx context.Context) ([]uuid.UUID, error)
}
