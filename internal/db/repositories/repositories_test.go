package repositories

import (
	"context"
	"errors"
	"testing"

	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.Category{},
		&gormModels.Vehicle{},
		&gormModels.Product{},
		&gormModels.CompatibilityRecord{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *gormModels.Category {
	repo := NewCategoryRepository(db)
	c := &gormModels.Category{Name: name}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID, name string) *gormModels.Product {
	repo := NewProductRepository(db)
	p := &gormModels.Product{
		CategoryID: categoryID,
		Name:       name,
		Slug:       "slug-" + uuid.NewString(),
		Price:      1000,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return p
}

func TestVehicleRepository_CreateDerivesSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db)

	v := &gormModels.Vehicle{Brand: "Toyota", Model: "Fielder", Code: "NZE141", Slug: "caller-supplied"}
	if err := repo.Create(context.Background(), v); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if v.ID == "" {
		t.Error("Expected an assigned id")
	}
	if v.Slug != "toyota-fielder-nze141" {
		t.Errorf("Slug must be derived from the identity triple, got %q", v.Slug)
	}
}

func TestVehicleRepository_DuplicateIdentity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	first := &gormModels.Vehicle{Brand: "Toyota", Model: "Fielder", Code: "NZE141"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	dup := &gormModels.Vehicle{Brand: "Toyota", Model: "Fielder", Code: "NZE141"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestVehicleRepository_FindByIDsDropsUnknown(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	v := &gormModels.Vehicle{Brand: "Honda", Model: "Fit", Code: "GE6"}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	found, err := repo.FindByIDs(ctx, []string{v.ID, uuid.NewString()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(found) != 1 || found[0].ID != v.ID {
		t.Errorf("Expected only the known vehicle, got %+v", found)
	}

	if found, err = repo.FindByIDs(ctx, nil); err != nil || found != nil {
		t.Errorf("Empty input must short-circuit, got %v / %v", found, err)
	}
}

func TestVehicleRepository_DeleteCascadesToCompatibility(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Suspension")
	product := seedProduct(t, db, category.ID, "Front Strut")

	v := &gormModels.Vehicle{Brand: "Toyota", Model: "Vitz", Code: "KSP130"}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	label := "Toyota Vitz KSP130"
	record := gormModels.CompatibilityRecord{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		VehicleID:   &v.ID,
		CompatLabel: &label,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("Failed to create compatibility row: %v", err)
	}

	n, err := repo.Delete(ctx, v.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected 1 row deleted, got %d", n)
	}

	var count int64
	db.Model(&gormModels.CompatibilityRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected compatibility rows to cascade, %d remain", count)
	}
}

func TestVehicleRepository_DeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVehicleRepository(db)

	n, err := repo.Delete(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 rows deleted, got %d", n)
	}
}

func TestCategoryRepository_DuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &gormModels.Category{Name: "Engine Parts"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	err := repo.Create(ctx, &gormModels.Category{Name: "Engine Parts"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestProductRepository_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	err := repo.Update(context.Background(), uuid.NewString(), map[string]interface{}{"stock": 5})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestProductRepository_CountByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Brakes")
	other := seedCategory(t, db, "Filters")
	seedProduct(t, db, category.ID, "Front Pads")
	seedProduct(t, db, category.ID, "Rear Pads")

	n, err := repo.CountByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 products, got %d", n)
	}

	if n, _ = repo.CountByCategory(ctx, other.ID); n != 0 {
		t.Errorf("Expected 0 products for the empty category, got %d", n)
	}
}

func TestProductRepository_ListIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	category := seedCategory(t, db, "Electrical")
	want := map[string]bool{}
	for _, name := range []string{"Alternator", "Starter", "Coil"} {
		p := seedProduct(t, db, category.ID, name)
		want[p.ID] = true
	}

	ids, err := repo.ListIDs(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("Expected 3 ids, got %d", len(ids))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("Unexpected id %s", id)
		}
	}
}
