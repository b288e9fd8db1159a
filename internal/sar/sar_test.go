package sar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/datashield-dev/datashield/db"
	"github.com/datashield-dev/datashield/internal/seed"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. cache=shared keeps
// every pooled connection on the same database; the name keeps tests apart.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(conn))

	return conn
}

// seededDB is newTestDB plus the demo dataset: subject 42 owning project
// 123 with 10 tasks, member 99 (who has a note and a login event of their
// own), and admin 1.
func seededDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn := newTestDB(t)
	require.NoError(t, seed.PopulateDemoData(conn))

	return conn
}

func countRows(t *testing.T, conn *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, conn.Model(model).Where(query, args...).Count(&count).Error)

	return count
}
