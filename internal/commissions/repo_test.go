package commissions

import (
	"context"
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
)

func setupCommissionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  role TEXT NOT NULL,
  notify_by_email INTEGER NOT NULL DEFAULT 0,
  commission_rate NUMERIC,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS publications (
  id TEXT PRIMARY KEY,
  area_id TEXT NOT NULL,
  name TEXT NOT NULL,
  frequency TEXT NOT NULL DEFAULT 'daily',
  price NUMERIC NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS delivery_schedules (
  id TEXT PRIMARY KEY,
  personnel_id TEXT NOT NULL,
  route_id TEXT NOT NULL,
  area_id TEXT NOT NULL,
  schedule_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS delivery_items (
  id TEXT PRIMARY KEY,
  schedule_id TEXT NOT NULL,
  subscription_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  delivered_at DATETIME,
  photo_proof TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS deliverer_payments (
  id TEXT PRIMARY KEY,
  personnel_id TEXT NOT NULL,
  month INTEGER NOT NULL,
  year INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  commission_rate NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (personnel_id, month, year)
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type deliveredFixture struct {
	db          *gorm.DB
	personnelID uuid.UUID
	areaID      uuid.UUID
}

func (f *deliveredFixture) addDelivered(t *testing.T, price string, quantity int, deliveredAt time.Time, status enums.DeliveryItemStatus) {
	t.Helper()

	publication := &models.Publication{
		ID:     uuid.New(),
		AreaID: f.areaID,
		Name:   "Morning Post",
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
	require.NoError(t, f.db.Create(publication).Error)

	subscription := &models.Subscription{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		PublicationID: publication.ID,
		AddressID:     uuid.New(),
		AreaID:        f.areaID,
		Quantity:      quantity,
		Status:        enums.SubscriptionStatusActive,
	}
	require.NoError(t, f.db.Create(subscription).Error)

	schedule := &models.DeliverySchedule{
		ID:           uuid.New(),
		PersonnelID:  f.personnelID,
		RouteID:      uuid.New(),
		AreaID:       f.areaID,
		ScheduleDate: deliveredAt.Truncate(24 * time.Hour),
		Status:       enums.ScheduleStatusCompleted,
	}
	require.NoError(t, f.db.Create(schedule).Error)

	item := &models.DeliveryItem{
		ID:             uuid.New(),
		ScheduleID:     schedule.ID,
		SubscriptionID: subscription.ID,
		Quantity:       quantity,
		Status:         status,
	}
	if status == enums.DeliveryItemStatusDelivered {
		item.DeliveredAt = &deliveredAt
	}
	require.NoError(t, f.db.Create(item).Error)
}

func TestSumDeliveredValue(t *testing.T) {
	db := setupCommissionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	f := &deliveredFixture{db: db, personnelID: uuid.New(), areaID: uuid.New()}
	inWindow := time.Date(2024, 6, 10, 7, 0, 0, 0, time.UTC)
	f.addDelivered(t, "10.00", 2, inWindow, enums.DeliveryItemStatusDelivered)
	f.addDelivered(t, "5.00", 1, inWindow, enums.DeliveryItemStatusDelivered)
	// Outside the window and unresolved work must not count.
	f.addDelivered(t, "99.00", 1, time.Date(2024, 7, 2, 7, 0, 0, 0, time.UTC), enums.DeliveryItemStatusDelivered)
	f.addDelivered(t, "50.00", 1, inWindow, enums.DeliveryItemStatusFailed)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	total, err := repo.SumDeliveredValue(ctx, f.personnelID, []uuid.UUID{f.areaID}, from, to)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("25")), "got %s", total)

	total, err = repo.SumDeliveredValue(ctx, f.personnelID, []uuid.UUID{uuid.New()}, from, to)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestExistsPaymentForPeriod(t *testing.T) {
	db := setupCommissionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	personnelID := uuid.New()

	exists, err := repo.ExistsPaymentForPeriod(ctx, personnelID, 6, 2024)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.CreatePayment(ctx, &models.DelivererPayment{
		ID:             uuid.New(),
		PersonnelID:    personnelID,
		Month:          6,
		Year:           2024,
		Amount:         decimal.RequireFromString("25.00"),
		CommissionRate: decimal.RequireFromString("10"),
		Status:         enums.DelivererPaymentStatusPending,
	})
	require.NoError(t, err)

	exists, err = repo.ExistsPaymentForPeriod(ctx, personnelID, 6, 2024)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsPaymentForPeriod(ctx, personnelID, 7, 2024)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindActiveDeliverers(t *testing.T) {
	db := setupCommissionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := &models.User{ID: uuid.New(), Name: "Sam", Email: "sam@example.com", Role: enums.UserRoleDeliverer, Active: true}
	inactive := &models.User{ID: uuid.New(), Name: "Pat", Email: "pat@example.com", Role: enums.UserRoleDeliverer, Active: false}
	manager := &models.User{ID: uuid.New(), Name: "Max", Email: "max@example.com", Role: enums.UserRoleManager, Active: true}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(inactive).Error)
	require.NoError(t, db.Create(manager).Error)

	found, err := repo.FindActiveDeliverers(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, active.ID, found[0].ID)
}
