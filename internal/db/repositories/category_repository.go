package repositories

import (
	"context"

	"gearhouse/catalog/internal/common"
	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *gormModels.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Slug = common.Slugify(c.Name)

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]gormModels.Category, error) {
	var categories []gormModels.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&gormModels.Category{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
