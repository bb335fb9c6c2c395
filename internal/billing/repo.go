package billing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a billing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBillableSubscriptions(ctx context.Context, areaIDs []uuid.UUID) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND area_id IN ?", enums.SubscriptionStatusActive, areaIDs).
		Order("customer_id ASC").
		Order("created_at ASC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repository) FindPublications(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Publication, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Publication{}, nil
	}
	var publications []models.Publication
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&publications).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Publication, len(publications))
	for _, publication := range publications {
		byID[publication.ID] = publication
	}
	return byID, nil
}

func (r *repository) ExistsBillForPeriod(ctx context.Context, customerID, areaID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Where("customer_id = ? AND area_id = ? AND bill_month = ? AND bill_year = ?", customerID, areaID, month, year).
		Count(&count).Error
	return count > 0, err
}

// NextBillSequence allocates the next number for the period. Callers must run
// this inside the generation transaction, under the period run lock.
func (r *repository) NextBillSequence(ctx context.Context, month, year int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Where("bill_month = ? AND bill_year = ?", month, year).
		Select("COALESCE(MAX(sequence_number), 0) + 1").
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *repository) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	if err := r.db.WithContext(ctx).Create(bill).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *repository) CreateBillItems(ctx context.Context, items []models.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ListBills pages bills newest first on (created_at, id).
func (r *repository) ListBills(ctx context.Context, query ListBillsQuery) ([]models.Bill, error) {
	q := r.db.WithContext(ctx).Model(&models.Bill{})
	if query.CustomerID != nil {
		q = q.Where("customer_id = ?", *query.CustomerID)
	}
	if len(query.AreaIDs) > 0 {
		q = q.Where("area_id IN ?", query.AreaIDs)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if query.Cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var bills []models.Bill
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(query.Limit).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
