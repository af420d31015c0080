package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ningscard/backend/internal/infrastructure/persistence/models"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ProductModel{},
		&models.OrderLineModel{},
		&models.BreakPoolEntryModel{},
		&models.PendingPaymentModel{},
	)
	require.NoError(t, err)

	return db
}
