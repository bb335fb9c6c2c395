package changerequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a change request repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateChangeRequest(ctx context.Context, request *models.SubscriptionChangeRequest) (*models.SubscriptionChangeRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

func (r *repository) CreateSubscription(ctx context.Context, subscription *models.Subscription) (*models.Subscription, error) {
	if err := r.db.WithContext(ctx).Create(subscription).Error; err != nil {
		return nil, err
	}
	return subscription, nil
}

func (r *repository) FindChangeRequest(ctx context.Context, id uuid.UUID) (*models.SubscriptionChangeRequest, error) {
	var request models.SubscriptionChangeRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *repository) FindAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) FindDefaultAddress(ctx context.Context, customerID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND active = ?", customerID, true).
		Order("is_default DESC").
		Order("created_at ASC").
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) FindPublication(ctx context.Context, id uuid.UUID) (*models.Publication, error) {
	var publication models.Publication
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&publication).Error
	if err != nil {
		return nil, err
	}
	return &publication, nil
}

func (r *repository) UpdateChangeRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SubscriptionChangeRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateSubscription(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(updates).Error
}
