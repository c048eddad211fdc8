package worklist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
)

// Repository persists working list lines.
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

// FindLine loads the (user, product) line if it exists.
func (r *Repository) FindLine(ctx context.Context, userID int64, productID uuid.UUID) (*models.WorkListItem, error) {
	var item models.WorkListItem
	err := r.db.WithContext(ctx).
		First(&item, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser returns the user's lines in insertion order with products attached.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.WorkListItem, error) {
	var items []models.WorkListItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CreateLine inserts a new line.
func (r *Repository) CreateLine(ctx context.Context, item *models.WorkListItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity overwrites the quantity of an existing line.
func (r *Repository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkListItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity", quantity).Error
}

// DeleteLine removes the (user, product) line and reports whether it existed.
func (r *Repository) DeleteLine(ctx context.Context, userID int64, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WorkListItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteAllForUser clears the user's list. Deleting an empty list is a no-op.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.WorkListItem{}).Error
}
