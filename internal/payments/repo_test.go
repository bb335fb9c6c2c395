package payments

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

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

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
	paymentsTable := `
CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  bill_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  method TEXT NOT NULL,
  receipt_number TEXT NOT NULL UNIQUE,
  sequence_number INTEGER NOT NULL,
  reference TEXT,
  received_by TEXT,
  paid_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(bills).Error)
	require.NoError(t, db.Exec(paymentsTable).Error)
	return db
}

func newPayment(month, year, seq int) *models.Payment {
	return &models.Payment{
		ID:             uuid.New(),
		BillID:         uuid.New(),
		Amount:         decimal.RequireFromString("25.00"),
		Method:         enums.PaymentMethodCash,
		ReceiptNumber:  FormatReceiptNumber(month, year, seq),
		SequenceNumber: seq,
		PaidAt:         time.Date(year, time.Month(month), 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestNextReceiptSequence(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seq, err := repo.NextReceiptSequence(ctx, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	_, err = repo.CreatePayment(ctx, newPayment(6, 2024, seq))
	require.NoError(t, err)

	seq, err = repo.NextReceiptSequence(ctx, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	// A different period starts its own sequence.
	seq, err = repo.NextReceiptSequence(ctx, 7, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestUpdateBillBalance(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	bill := &models.Bill{
		ID:                uuid.New(),
		CustomerID:        uuid.New(),
		AreaID:            uuid.New(),
		BillNumber:        "BILL-202406-1",
		SequenceNumber:    1,
		BillMonth:         6,
		BillYear:          2024,
		TotalAmount:       decimal.RequireFromString("100.00"),
		OutstandingAmount: decimal.RequireFromString("100.00"),
		Status:            enums.BillStatusUnpaid,
		DueDate:           time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(bill).Error)

	err := repo.UpdateBill(ctx, bill.ID, map[string]any{
		"outstanding_amount": decimal.RequireFromString("60.00"),
		"status":             enums.BillStatusPartiallyPaid,
	})
	require.NoError(t, err)

	found, err := repo.FindBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.True(t, found.OutstandingAmount.Equal(decimal.RequireFromString("60.00")))
	assert.Equal(t, enums.BillStatusPartiallyPaid, found.Status)
}

func TestFindBillNotFound(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindBill(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
