package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkListItem is one line of a user's pre-commit working list. At most one
// row exists per (user, product); adding the same product again increments
// the quantity instead of inserting a duplicate.
type WorkListItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uniq_work_list_user_product;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uniq_work_list_user_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *WorkListItem) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
