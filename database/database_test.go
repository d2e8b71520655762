package database

import (
	"testing"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrateSQLite(t *testing.T) {
	db, err := ConnectDB(DriverSQLite, "file::memory:", time.Second)
	require.NoError(t, err)
	defer CloseDB(db)

	require.NoError(t, Migrate(db))
	for _, table := range []any{&models.Student{}, &models.FeeStructure{}, &models.StudentFeeRecord{}, &models.Payment{}, &models.Expense{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&models.Student{}, "StudentID"))
}

func TestConnectDBRejectsUnknownDriver(t *testing.T) {
	_, err := ConnectDB("oracle", "dsn", time.Second)
	assert.ErrorContains(t, err, "unsupported relational driver")
}
