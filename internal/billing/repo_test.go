package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/db/models"
	"github.com/newsroute/newsroute-backend/pkg/enums"
	"github.com/newsroute/newsroute-backend/pkg/pagination"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	subscriptions := `
CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  publication_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  area_id TEXT NOT NULL,
  deliverer_id TEXT,
  quantity INTEGER NOT NULL DEFAULT 1,
  status TEXT NOT NULL DEFAULT 'pending',
  delivery_preferences TEXT,
  start_date DATETIME,
  end_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	publications := `
CREATE TABLE IF NOT EXISTS publications (
  id TEXT PRIMARY KEY,
  area_id TEXT NOT NULL,
  name TEXT NOT NULL,
  frequency TEXT NOT NULL DEFAULT 'daily',
  price NUMERIC NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	bills := `
CREATE TABLE IF NOT EXISTS bills (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  area_id TEXT NOT NULL,
  bill_number TEXT NOT NULL UNIQUE,
  sequence_number INTEGER NOT NULL,
  bill_month INTEGER NOT NULL,
  bill_year INTEGER NOT NULL,
  total_amount NUMERIC NOT NULL,
  outstanding_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'unpaid',
  due_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	billItems := `
CREATE TABLE IF NOT EXISTS bill_items (
  id TEXT PRIMARY KEY,
  bill_id TEXT NOT NULL,
  subscription_id TEXT NOT NULL,
  publication_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  period_from DATETIME NOT NULL,
  period_to DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(subscriptions).Error)
	require.NoError(t, db.Exec(publications).Error)
	require.NoError(t, db.Exec(bills).Error)
	require.NoError(t, db.Exec(billItems).Error)
	return db
}

func newBill(customerID, areaID uuid.UUID, month, year, seq int) *models.Bill {
	return &models.Bill{
		ID:                uuid.New(),
		CustomerID:        customerID,
		AreaID:            areaID,
		BillNumber:        FormatBillNumber(month, year, seq),
		SequenceNumber:    seq,
		BillMonth:         month,
		BillYear:          year,
		TotalAmount:       decimal.RequireFromString("100.00"),
		OutstandingAmount: decimal.RequireFromString("100.00"),
		Status:            enums.BillStatusUnpaid,
		DueDate:           time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestNextBillSequence(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seq, err := repo.NextBillSequence(ctx, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	_, err = repo.CreateBill(ctx, newBill(uuid.New(), uuid.New(), 6, 2024, seq))
	require.NoError(t, err)

	seq, err = repo.NextBillSequence(ctx, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	// A different period starts its own sequence.
	seq, err = repo.NextBillSequence(ctx, 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestExistsBillForPeriod(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	areaID := uuid.New()

	exists, err := repo.ExistsBillForPeriod(ctx, customerID, areaID, 6, 2024)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.CreateBill(ctx, newBill(customerID, areaID, 6, 2024, 1))
	require.NoError(t, err)

	exists, err = repo.ExistsBillForPeriod(ctx, customerID, areaID, 6, 2024)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBillForPeriod(ctx, customerID, areaID, 7, 2024)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindBillableSubscriptions(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	areaID := uuid.New()
	otherArea := uuid.New()

	active := &models.Subscription{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		PublicationID: uuid.New(),
		AddressID:     uuid.New(),
		AreaID:        areaID,
		Quantity:      2,
		Status:        enums.SubscriptionStatusActive,
	}
	paused := &models.Subscription{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		PublicationID: uuid.New(),
		AddressID:     uuid.New(),
		AreaID:        areaID,
		Quantity:      1,
		Status:        enums.SubscriptionStatusPaused,
	}
	elsewhere := &models.Subscription{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		PublicationID: uuid.New(),
		AddressID:     uuid.New(),
		AreaID:        otherArea,
		Quantity:      1,
		Status:        enums.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(paused).Error)
	require.NoError(t, db.Create(elsewhere).Error)

	found, err := repo.FindBillableSubscriptions(ctx, []uuid.UUID{areaID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID, found[0].ID)
}

func TestListBillsOrdersAndFilters(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	areaID := uuid.New()
	otherArea := uuid.New()

	older := newBill(customerID, areaID, 5, 2024, 1)
	older.CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := newBill(customerID, areaID, 6, 2024, 1)
	newer.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	newer.Status = enums.BillStatusPaid
	elsewhere := newBill(uuid.New(), otherArea, 6, 2024, 2)
	elsewhere.CreatedAt = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	for _, bill := range []*models.Bill{older, newer, elsewhere} {
		_, err := repo.CreateBill(ctx, bill)
		require.NoError(t, err)
	}

	bills, err := repo.ListBills(ctx, ListBillsQuery{AreaIDs: []uuid.UUID{areaID}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, newer.ID, bills[0].ID)
	assert.Equal(t, older.ID, bills[1].ID)

	unpaid := enums.BillStatusUnpaid
	bills, err = repo.ListBills(ctx, ListBillsQuery{AreaIDs: []uuid.UUID{areaID}, Status: &unpaid, Limit: 10})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, older.ID, bills[0].ID)

	bills, err = repo.ListBills(ctx, ListBillsQuery{
		CustomerID: &customerID,
		Cursor:     &pagination.Cursor{CreatedAt: newer.CreatedAt, ID: newer.ID},
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, older.ID, bills[0].ID)
}
