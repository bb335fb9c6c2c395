package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an identity repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindAreasByManager(ctx context.Context, userID uuid.UUID) ([]models.Area, error) {
	var areas []models.Area
	err := r.db.WithContext(ctx).
		Where("active = ? AND manager_ids @> ARRAY[?]::uuid[]", true, userID).
		Order("name ASC").
		Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

func (r *repository) FindAreasByDeliverer(ctx context.Context, userID uuid.UUID) ([]models.Area, error) {
	var areas []models.Area
	err := r.db.WithContext(ctx).
		Where("active = ? AND deliverer_ids @> ARRAY[?]::uuid[]", true, userID).
		Order("name ASC").
		Find(&areas).Error
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// ListActiveAreaIDs returns every active area. Used by scheduled runs that
// sweep the whole business.
func (r *repository) ListActiveAreaIDs(ctx context.Context) ([]uuid.UUID, error) {
	var areaIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Area{}).
		Where("active = ?", true).
		Order("name ASC").
		Pluck("id", &areaIDs).Error
	if err != nil {
		return nil, err
	}
	return areaIDs, nil
}

// FindAreasByCustomer resolves the distinct areas of the customer's active
// addresses.
func (r *repository) FindAreasByCustomer(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	var areaIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Distinct("area_id").
		Where("customer_id = ? AND active = ?", customerID, true).
		Pluck("area_id", &areaIDs).Error
	if err != nil {
		return nil, err
	}
	return areaIDs, nil
}
