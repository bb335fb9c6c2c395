package commissions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a commissions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveDeliverers(ctx context.Context) ([]models.User, error) {
	var deliverers []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", enums.UserRoleDeliverer, true).
		Order("created_at ASC").
		Find(&deliverers).Error
	if err != nil {
		return nil, err
	}
	return deliverers, nil
}

func (r *repository) ExistsPaymentForPeriod(ctx context.Context, personnelID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DelivererPayment{}).
		Where("personnel_id = ? AND month = ? AND year = ?", personnelID, month, year).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumDeliveredValue totals quantity times publication price over the
// personnel's delivered items inside the window.
func (r *repository) SumDeliveredValue(ctx context.Context, personnelID uuid.UUID, areaIDs []uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	if len(areaIDs) == 0 {
		return decimal.Zero, nil
	}
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryItem{}).
		Joins("JOIN delivery_schedules ON delivery_schedules.id = delivery_items.schedule_id").
		Joins("JOIN subscriptions ON subscriptions.id = delivery_items.subscription_id").
		Joins("JOIN publications ON publications.id = subscriptions.publication_id").
		Where("delivery_items.status = ?", enums.DeliveryItemStatusDelivered).
		Where("delivery_items.delivered_at >= ? AND delivery_items.delivered_at < ?", from, to).
		Where("delivery_schedules.personnel_id = ?", personnelID).
		Where("delivery_schedules.area_id IN ?", areaIDs).
		Select("COALESCE(SUM(delivery_items.quantity * publications.price), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.DelivererPayment) (*models.DelivererPayment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}
