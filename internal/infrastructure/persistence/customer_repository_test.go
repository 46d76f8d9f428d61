package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/optierp/backend/internal/domain/partner"
	"github.com/optierp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "type", "status", "phone", "tier", "loyalty_points", "total_purchases", "version"}).
			AddRow(customerID, "CUST-202501-00001", "Asha Rao", "individual", "active", "9876543210", "bronze", int64(150), decimal.NewFromInt(15000), 2)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), customerID)

		require.NoError(t, err)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "CUST-202501-00001", customer.Code)
		assert.Equal(t, partner.TierBronze, customer.Tier)
		assert.Equal(t, int64(150), customer.LoyaltyPoints)
		assert.Equal(t, 2, customer.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to customer not found", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrCustomerNotFound)
		assert.Nil(t, customer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_ExistsByPhone(t *testing.T) {
	t.Run("true when a customer holds the number", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE phone = \$1`).
			WithArgs("9876543210").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByPhone(context.Background(), "9876543210")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("false when the number is free", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE phone = \$1`).
			WithArgs("9876543210").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByPhone(context.Background(), "9876543210")

		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormCustomerRepository_Search(t *testing.T) {
	repo, mock, mockDB := newMockCustomerRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "phone", "type", "status", "tier"}).
		AddRow(id, "CUST-202501-00001", "Asha Rao", "9876543210", "individual", "active", "bronze")

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE name ILIKE \$1 OR phone LIKE \$2 ORDER BY created_at ASC LIMIT .*`).
		WithArgs("%rao%", "%rao%", 20).
		WillReturnRows(rows)

	customers, err := repo.Search(context.Background(), "rao", 20)

	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Asha Rao", customers[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_GenerateCode(t *testing.T) {
	t.Run("formats prefix, period, and padded counter", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		period := time.Now().Format("200601")
		mock.ExpectQuery(`INSERT INTO code_sequences`).
			WithArgs("customer-" + period).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(7)))

		code, err := repo.GenerateCode(context.Background())

		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CUST-%s-00007", period), code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates sequence failure", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`INSERT INTO code_sequences`).
			WillReturnError(sql.ErrConnDone)

		code, err := repo.GenerateCode(context.Background())

		assert.Error(t, err)
		assert.Empty(t, code)
	})
}

func TestGormCustomerRepository_Save(t *testing.T) {
	t.Run("maps unique violation to duplicate contact", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", partner.CustomerTypeIndividual)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "customers" SET`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err = repo.Save(context.Background(), customer)

		assert.ErrorIs(t, err, shared.ErrDuplicateContact)
	})

	t.Run("passes other storage failures through", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", partner.CustomerTypeIndividual)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "customers" SET`).
			WillReturnError(sql.ErrConnDone)

		err = repo.Save(context.Background(), customer)

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NotErrorIs(t, err, shared.ErrDuplicateContact)
	})
}

func TestGormCustomerRepository_SaveWithLock(t *testing.T) {
	t.Run("succeeds when the stored version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", partner.CustomerTypeIndividual)
		require.NoError(t, err)
		customer.IncrementVersion()

		mock.ExpectExec(`UPDATE "customers" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SaveWithLock(context.Background(), customer))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("writes a balance redeemed down to zero", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", partner.CustomerTypeIndividual)
		require.NoError(t, err)
		_, err = customer.RecordPurchase(decimal.NewFromInt(10000))
		require.NoError(t, err)
		_, err = customer.RedeemPoints(100)
		require.NoError(t, err)
		require.Equal(t, int64(0), customer.LoyaltyPoints)
		customer.IncrementVersion()

		mock.ExpectExec(`UPDATE "customers" SET .*"loyalty_points"=.* WHERE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SaveWithLock(context.Background(), customer))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a conflict when another writer got there first", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", partner.CustomerTypeIndividual)
		require.NoError(t, err)
		customer.IncrementVersion()

		mock.ExpectExec(`UPDATE "customers" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), customer)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
