package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is a sales channel with its own prices and stock levels.
type Store struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Handle    string    `gorm:"column:handle;not null;uniqueIndex:idx_stores_handle"`
	Name      string    `gorm:"column:name;not null"`
	Primary   bool      `gorm:"column:is_primary;not null"`
	Currency  string    `gorm:"column:currency;not null"`
	SortOrder int       `gorm:"column:sort_order;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Store) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
