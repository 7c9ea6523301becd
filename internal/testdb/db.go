package testdb

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodies-app/backend/internal/models"
)

var dbCounter int64

// Open creates an isolated in-memory SQLite database with the full schema.
// Shared cache keeps every pooled connection on the same database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("%s_%d",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()),
		atomic.AddInt64(&dbCounter, 1),
	)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the whole
	// test and sidesteps SQLite write contention.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
