package reminders

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

// NewRepository builds a reminders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOverdueBills(ctx context.Context, areaIDs []uuid.UUID, asOf time.Time) ([]models.Bill, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("area_id IN ?", areaIDs).
		Where("status IN ?", []enums.BillStatus{
			enums.BillStatusUnpaid,
			enums.BillStatusPartiallyPaid,
			enums.BillStatusOverdue,
		}).
		Where("due_date < ?", asOf).
		Order("due_date ASC, created_at ASC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repository) FindCustomers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		out[user.ID] = user
	}
	return out, nil
}

func (r *repository) LastReminderAt(ctx context.Context, billID uuid.UUID) (*time.Time, error) {
	var reminder models.PaymentReminder
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("reminder_date DESC").
		First(&reminder).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reminder.ReminderDate, nil
}

func (r *repository) CreateReminder(ctx context.Context, reminder *models.PaymentReminder) (*models.PaymentReminder, error) {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return nil, err
	}
	return reminder, nil
}
