package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/internal/repo"
	"github.com/tastebite/tastebite-backend/pkg/db/models"
)

// Repository exposes read access to the food catalog.
type Repository interface {
	ListActive(ctx context.Context) ([]models.FoodItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository returns a menu repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) ListActive(ctx context.Context) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	err := r.DB(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
