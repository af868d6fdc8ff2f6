// Package testutil provides the in-memory database used by DB-backed tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anh-khoa-nguyen/OFOProject/models"
)

// OpenDB returns an isolated in-memory sqlite database with the full schema
// migrated. A single connection is enforced so the in-memory database is not
// lost between pooled connections.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Restaurant{},
		&models.DishGroup{},
		&models.Dish{},
		&models.DishOptionGroup{},
		&models.DishOption{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Payment{},
		&models.Voucher{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
