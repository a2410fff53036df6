package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/purchasables/internal/repo"
	"github.com/angelmondragon/purchasables/pkg/db/models"
)

// Repository handles store persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.DB(ctx).Create(store).Error
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByHandle loads a store by its handle.
func (r *Repository) FindByHandle(ctx context.Context, handle string) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("handle = ?", handle).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindPrimary loads the store flagged as primary.
func (r *Repository) FindPrimary(ctx context.Context) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("is_primary = ?", true).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List returns every store ordered for display.
func (r *Repository) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.DB(ctx).Order("sort_order ASC").Order("handle ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}
