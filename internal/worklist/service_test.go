package worklist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockroom-backend/internal/catalog"
	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:worklist_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.WorkListItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, article string, department int, active bool) models.Product {
	t.Helper()
	p := models.Product{
		ID:         uuid.New(),
		Article:    article,
		Name:       article + " product",
		Department: department,
		StockQty:   "100",
		IsActive:   active,
	}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestAddLineMergesQuantities(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	product := seedProduct(t, conn, "10000001", 1, true)

	line, err := svc.AddLine(ctx, 42, product.ID, 3)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if line.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", line.Quantity)
	}

	line, err = svc.AddLine(ctx, 42, product.ID, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if line.Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", line.Quantity)
	}

	lines, err := svc.GetLines(ctx, 42)
	if err != nil {
		t.Fatalf("get lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(lines))
	}
}

func TestAddLineRejectsOtherDepartment(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	first := seedProduct(t, conn, "10000001", 1, true)
	other := seedProduct(t, conn, "10000002", 2, true)

	if _, err := svc.AddLine(ctx, 42, first.ID, 1); err != nil {
		t.Fatalf("add first: %v", err)
	}

	_, err := svc.AddLine(ctx, 42, other.ID, 1)
	if err == nil {
		t.Fatal("expected department mismatch")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDepartmentMismatch {
		t.Fatalf("unexpected error: %v", err)
	}

	// other users stay unaffected
	if _, err := svc.AddLine(ctx, 77, other.ID, 1); err != nil {
		t.Fatalf("other user add: %v", err)
	}
}

func TestAddLineValidation(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, 42, uuid.New(), 0); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.AddLine(ctx, 42, uuid.New(), 1); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}

	inactive := seedProduct(t, conn, "10000009", 1, false)
	if _, err := svc.AddLine(ctx, 42, inactive.ID, 1); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestDepartmentPinning(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()

	dept, err := svc.Department(ctx, 42)
	if err != nil {
		t.Fatalf("department: %v", err)
	}
	if dept != nil {
		t.Fatalf("expected nil department for empty list, got %d", *dept)
	}

	product := seedProduct(t, conn, "10000001", 7, true)
	if _, err := svc.AddLine(ctx, 42, product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	dept, err = svc.Department(ctx, 42)
	if err != nil {
		t.Fatalf("department: %v", err)
	}
	if dept == nil || *dept != 7 {
		t.Fatalf("expected department 7, got %v", dept)
	}
}

func TestUpdateAndRemoveLine(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	product := seedProduct(t, conn, "10000001", 1, true)

	if _, err := svc.AddLine(ctx, 42, product.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	line, err := svc.UpdateLineQuantity(ctx, 42, product.ID, 9)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if line.Quantity != 9 {
		t.Fatalf("expected quantity 9, got %d", line.Quantity)
	}

	if _, err := svc.UpdateLineQuantity(ctx, 42, product.ID, 0); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.RemoveLine(ctx, 42, product.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveLine(ctx, 42, product.ID); pkgerrors.As(err) == nil ||
		pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	ctx := context.Background()
	product := seedProduct(t, conn, "10000001", 1, true)

	if _, err := svc.AddLine(ctx, 42, product.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.Clear(ctx, 42); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := svc.Clear(ctx, 42); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	lines, err := svc.GetLines(ctx, 42)
	if err != nil {
		t.Fatalf("get lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty list, got %d lines", len(lines))
	}
}
