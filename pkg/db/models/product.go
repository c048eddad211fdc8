package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stock ledger row. StockQty is kept as the raw text imported
// from the warehouse spreadsheet; it is parsed on demand and a malformed
// value counts as zero stock. Reserved accumulates quantities committed by
// past reservations and is only ever incremented by the commit path.
type Product struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Article    string          `gorm:"column:article;size:20;uniqueIndex;not null"`
	Name       string          `gorm:"column:name;size:255;not null"`
	Department int             `gorm:"column:department;not null"`
	GroupLabel string          `gorm:"column:group_label;size:100;not null"`
	StockQty   string          `gorm:"column:stock_qty;size:50;not null;default:'0'"`
	Reserved   decimal.Decimal `gorm:"column:reserved;type:numeric(12,3);not null;default:0"`
	IsActive   bool            `gorm:"column:is_active;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id client side so inserts behave the same on
// drivers without a uuid default.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
