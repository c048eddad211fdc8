package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.WorkListItem{},
		&models.SavedList{},
		&models.SavedListItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestModelsMigrateOnSQLite(t *testing.T) {
	t.Parallel()

	// AutoMigrate across every model is what the test fixtures and the
	// sqlite dev flag rely on; a Postgres-only column default in a struct
	// tag breaks it.
	newTestDB(t)
}

func TestCreateAssignsUUIDs(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	product := models.Product{
		Article:  "10000001",
		Name:     "10000001 Steel bolt M6",
		StockQty: "5",
		IsActive: true,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("expected product id to be assigned on create")
	}

	saved := models.SavedList{
		UserID:   7,
		FileName: "1_01-06-2025_09-05.xlsx",
		Items: []models.SavedListItem{
			{ArticleName: product.Name, Quantity: decimal.NewFromInt(2)},
		},
	}
	if err := conn.Create(&saved).Error; err != nil {
		t.Fatalf("create saved list: %v", err)
	}
	if saved.ID == uuid.Nil || saved.Items[0].ID == uuid.Nil {
		t.Fatal("expected saved list ids to be assigned on create")
	}

	item := models.WorkListItem{UserID: 7, ProductID: product.ID, Quantity: 2}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("create work list item: %v", err)
	}
	if item.ID == uuid.Nil {
		t.Fatal("expected work list item id to be assigned on create")
	}
}

func TestInactiveProductStaysInactive(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	product := models.Product{
		Article:  "10000002",
		Name:     "10000002 Steel nut M6",
		StockQty: "5",
		IsActive: false,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	var got models.Product
	if err := conn.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if got.IsActive {
		t.Fatal("product created inactive must not be stored active")
	}
}
