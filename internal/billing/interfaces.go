package billing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	"github.com/newsroute/newsroute-backend/pkg/pagination"
)

// ListBillsQuery filters a cursor-paginated bill listing.
type ListBillsQuery struct {
	CustomerID *uuid.UUID
	AreaIDs    []uuid.UUID
	Status     *enums.BillStatus
	Cursor     *pagination.Cursor
	Limit      int
}

// Repository defines persistence operations for bill generation.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBillableSubscriptions(ctx context.Context, areaIDs []uuid.UUID) ([]models.Subscription, error)
	FindPublications(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Publication, error)
	ExistsBillForPeriod(ctx context.Context, customerID, areaID uuid.UUID, month, year int) (bool, error)
	NextBillSequence(ctx context.Context, month, year int) (int, error)
	CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error)
	CreateBillItems(ctx context.Context, items []models.BillItem) error
	ListBills(ctx context.Context, query ListBillsQuery) ([]models.Bill, error)
}
