package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavedListItem is one committed line inside a SavedList. Quantity is the
// fulfillable amount that was reserved, which may be fractional when the
// ledger's on-hand text parsed to a non-integer.
type SavedListItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ListID      uuid.UUID       `gorm:"column:list_id;type:uuid;not null;index"`
	ArticleName string          `gorm:"column:article_name;size:255;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
}

func (i *SavedListItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
