package ledger

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestAcquireReentrancyGuard_AlreadySet(t *testing.T) {
	db, mock := newMockGormDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "instance_state"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "market_counter", "reentrancy_flag"}).
			AddRow(1, 5, true))
	mock.ExpectRollback()

	inst := NewInstance(db)
	err := inst.AcquireReentrancyGuard(context.Background())
	require.Error(t, err)
}
