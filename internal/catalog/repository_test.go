package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
)

func TestRepositoryFindByArticle(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := seedProduct(t, conn, models.Product{
		Article:    "10000001",
		Name:       "10000001 Copper wire 2mm",
		Department: 3,
		StockQty:   "12",
		IsActive:   true,
	})

	got, err := repo.FindByArticle(ctx, "10000001")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
	assert.Equal(t, 3, got.Department)

	_, err = repo.FindByArticle(ctx, "99999999")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositorySearch(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedProduct(t, conn, models.Product{Article: "10000002", Name: "10000002 Steel bolt M6", Department: 1, StockQty: "5", IsActive: true})
	seedProduct(t, conn, models.Product{Article: "10000003", Name: "10000003 Steel nut M6", Department: 1, StockQty: "5", IsActive: true})
	seedProduct(t, conn, models.Product{Article: "10000004", Name: "10000004 Steel washer", Department: 1, StockQty: "5", IsActive: false})

	found, err := repo.Search(ctx, "Steel", 10)
	require.NoError(t, err)
	require.Len(t, found, 2, "inactive products must not match")

	byArticle, err := repo.Search(ctx, "10000003", 10)
	require.NoError(t, err)
	require.Len(t, byArticle, 1)
	assert.Equal(t, "10000003", byArticle[0].Article)
}

func TestRepositoryGetForUpdateRequiresTx(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.GetForUpdate(context.Background(), nil, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
}

func TestRepositoryIncrementReserved(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := seedProduct(t, conn, models.Product{
		Article:  "10000005",
		Name:     "10000005 Paint can",
		StockQty: "20",
		IsActive: true,
	})

	err := conn.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.GetForUpdate(ctx, tx, product.ID)
		if err != nil {
			return err
		}
		if !locked.Reserved.IsZero() {
			return errors.New("expected zero reserved")
		}
		if err := repo.IncrementReserved(ctx, tx, product.ID, decimal.NewFromInt(3)); err != nil {
			return err
		}
		return repo.IncrementReserved(ctx, tx, product.ID, decimal.RequireFromString("1.5"))
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Reserved.Equal(decimal.RequireFromString("4.5")),
		"reserved = %s", reloaded.Reserved)
}

func TestRepositoryClearAllReservations(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedProduct(t, conn, models.Product{Article: "10000006", Name: "10000006 A", StockQty: "5", Reserved: decimal.NewFromInt(2), IsActive: true})
	seedProduct(t, conn, models.Product{Article: "10000007", Name: "10000007 B", StockQty: "5", Reserved: decimal.NewFromInt(1), IsActive: true})
	seedProduct(t, conn, models.Product{Article: "10000008", Name: "10000008 C", StockQty: "5", IsActive: true})

	affected, err := repo.ClearAllReservations(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	var remaining int64
	require.NoError(t, conn.Model(&models.Product{}).Where("reserved <> 0").Count(&remaining).Error)
	assert.Zero(t, remaining)
}
