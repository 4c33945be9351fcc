package repositories

import (
	"context"
	"errors"
	"strings"

	"gearhouse/catalog/internal/common"
	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create registers a vehicle. The slug is always derived from
// (brand, model, code); callers cannot override it.
func (r *VehicleRepository) Create(ctx context.Context, v *gormModels.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.Slug = common.Slugify(v.Brand, v.Model, v.Code)

	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*gormModels.Vehicle, error) {
	var v gormModels.Vehicle
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByIDs fetches the vehicles whose ids appear in the list. Unknown ids
// are simply absent from the result.
func (r *VehicleRepository) FindByIDs(ctx context.Context, ids []string) ([]gormModels.Vehicle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var vehicles []gormModels.Vehicle
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]gormModels.Vehicle, error) {
	var vehicles []gormModels.Vehicle
	err := r.db.WithContext(ctx).Order("brand, model, code").Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Delete removes a vehicle. Compatibility rows referencing it go with it via
// the ON DELETE CASCADE constraint.
func (r *VehicleRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&gormModels.Vehicle{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// IsDuplicate recognizes uniqueness violations from Postgres, GORM's error
// translation, and the sqlite driver used in tests.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
