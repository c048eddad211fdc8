package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
)

// Repository exposes product catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByArticle retrieves the product matching the provided article code.
func (r *Repository) FindByArticle(ctx context.Context, article string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "article = ?", article).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Search matches active products whose article or name contains the query.
// Plain substring match; ranking is intentionally left to the caller.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	var out []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("article LIKE ? OR name LIKE ?", pattern, pattern).
		Order("article ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveByDepartment returns all active products in a department.
func (r *Repository) ListActiveByDepartment(ctx context.Context, department int) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND department = ?", true, department).
		Order("article ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdate locks the product row with SELECT ... FOR UPDATE. It must run
// inside a transaction; calling it on the base handle is a programming error.
func (r *Repository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "GetForUpdate requires a transaction")
	}
	q := tx.WithContext(ctx)
	// SQLite has no row locks; the dev/test driver reads plain.
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := q.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementReserved adds delta to the reserved counter of an already locked row.
func (r *Repository) IncrementReserved(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "IncrementReserved requires a transaction")
	}
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("reserved", gorm.Expr("reserved + ?", delta)).Error
}

// ClearAllReservations resets every reserved counter to zero and reports the
// number of affected rows. Administrative path only.
func (r *Repository) ClearAllReservations(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("reserved <> 0").
		UpdateColumn("reserved", decimal.Zero)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
