package schedules

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a schedules repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPersonnel(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindRoute(ctx context.Context, id uuid.UUID) (*models.DeliveryRoute, error) {
	var route models.DeliveryRoute
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *repository) ExistsScheduleForDate(ctx context.Context, personnelID uuid.UUID, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliverySchedule{}).
		Where("personnel_id = ? AND schedule_date = ?", personnelID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindActiveSubscriptions(ctx context.Context, areaID uuid.UUID) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.WithContext(ctx).
		Where("area_id = ? AND status = ?", areaID, enums.SubscriptionStatusActive).
		Order("created_at ASC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repository) CreateSchedule(ctx context.Context, schedule *models.DeliverySchedule) (*models.DeliverySchedule, error) {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, err
	}
	return schedule, nil
}

func (r *repository) CreateDeliveryItems(ctx context.Context, items []models.DeliveryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindSchedule(ctx context.Context, id uuid.UUID) (*models.DeliverySchedule, error) {
	var schedule models.DeliverySchedule
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.DeliveryItem, error) {
	var item models.DeliveryItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateSchedule(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliverySchedule{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CountUnresolvedItems(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryItem{}).
		Where("schedule_id = ? AND status = ?", scheduleID, enums.DeliveryItemStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
