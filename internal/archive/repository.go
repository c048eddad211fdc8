package archive

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
)

// Repository persists commit archives. Rows are append-only.
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

// Create stores the archive together with its items.
func (r *Repository) Create(ctx context.Context, list *models.SavedList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// UpdateFilePath records where the exported spreadsheet ended up.
func (r *Repository) UpdateFilePath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.SavedList{}).
		Where("id = ?", id).
		UpdateColumn("file_path", path).Error
}

// ListByUser returns the user's archives newest first, items included.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.SavedList, error) {
	var lists []models.SavedList
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// UsersWithArchives returns the distinct user ids that own at least one archive.
func (r *Repository) UsersWithArchives(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedList{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
