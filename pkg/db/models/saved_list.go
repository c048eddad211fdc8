package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedList is one archived commit. Rows are append-only; the retention job
// that eventually deletes them lives outside this service.
type SavedList struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	FileName  string          `gorm:"column:file_name;size:100;not null"`
	FilePath  string          `gorm:"column:file_path;size:255;not null"`
	Items     []SavedListItem `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (s *SavedList) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
