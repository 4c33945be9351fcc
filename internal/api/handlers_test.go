package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db/dbtest"
	"gearhouse/catalog/internal/db/repositories"
	"gearhouse/catalog/internal/models/dtos/responses"
	gormModels "gearhouse/catalog/internal/models/gorm"
	"gearhouse/catalog/internal/schema"
	"gearhouse/catalog/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test dependencies over sqlite and an in-memory store.
func newTestDeps(t *testing.T) (*Dependencies, *dbtest.MemStore) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := gdb.AutoMigrate(
		&gormModels.Category{},
		&gormModels.Vehicle{},
		&gormModels.Product{},
		&gormModels.CompatibilityRecord{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	store := dbtest.NewMemStore()
	store.CreateTable(constants.TableCompatibility, "id", "product_id", "vehicle_id", "compat_label")

	repos := &Repositories{
		Vehicles:   repositories.NewVehicleRepository(gdb),
		Products:   repositories.NewProductRepository(gdb),
		Categories: repositories.NewCategoryRepository(gdb),
	}

	cacheSvc := common.NewCacheService(time.Minute, time.Minute)
	invalidator := common.NewInvalidator(cacheSvc, nil)
	probe := schema.NewProbe(store, cacheSvc, time.Minute)

	migrator := schema.NewMigrator(store, probe, nil, nil)
	migrator.ReloadDelay = 0

	svcs := &Services{
		Cache:       cacheSvc,
		Invalidator: invalidator,
		URLSigner:   common.NewURLSignerService([]byte("test-secret"), nil),
		Probe:       probe,
		Migrator:    migrator,
		Resolver:    services.NewCompatResolver(repos.Vehicles),
		Writer:      services.NewCompatWriter(store, probe, invalidator),
		Reader:      services.NewCompatReader(store, probe, repos.Vehicles, invalidator),
		Seeder:      services.NewSeeder(store, probe, repos.Products, repos.Vehicles, invalidator),
	}

	return &Dependencies{Store: store, Repo: repos, Services: svcs}, store
}

func newTestRouter(h *Handlers) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}/compatibility", h.GetProductCompatibility())
	r.Post("/api/v1/products", h.CreateProduct())
	r.Patch("/api/v1/products/{id}", h.PatchProduct())
	r.Post("/api/v1/vehicles", h.CreateVehicle())
	r.Get("/api/v1/vehicles", h.ListVehicles())
	r.Delete("/api/v1/categories/{id}", h.DeleteCategory())
	r.Post("/api/v1/categories", h.CreateCategory())
	r.Post("/api/v1/compatibility/seed", h.SeedCompatibility())
	r.Post("/api/v1/schema/migrate/{changeID}", h.RunSchemaMigration())
	r.Get("/api/v1/schema/migrate/{changeID}", h.GetSchemaMigrationStatus())
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var resp responses.APIResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v (%s)", err, w.Body.String())
	}
	if resp.Data == nil {
		t.Fatalf("Expected data in response: %s", w.Body.String())
	}
	return *resp.Data
}

func TestCreateVehicleHandler(t *testing.T) {
	deps, _ := newTestDeps(t)
	r := newTestRouter(NewHandlers(deps))

	body := map[string]interface{}{"brand": "Toyota", "model": "Fielder", "code": "NZE141"}
	w := doJSON(t, r, http.MethodPost, "/api/v1/vehicles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeData[gormModels.Vehicle](t, w)
	if created.Slug != "toyota-fielder-nze141" {
		t.Errorf("Unexpected slug %q", created.Slug)
	}

	// Same identity again conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/v1/vehicles", body)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for a duplicate identity, got %d", w.Code)
	}

	// Missing fields rejected up front.
	w = doJSON(t, r, http.MethodPost, "/api/v1/vehicles", map[string]interface{}{"brand": "Toyota"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %d", w.Code)
	}
}

func TestCreateProductWithCompatibilityLabels(t *testing.T) {
	deps, store := newTestDeps(t)
	r := newTestRouter(NewHandlers(deps))

	category := decodeData[gormModels.Category](t,
		doJSON(t, r, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Brakes"}))

	body := map[string]interface{}{
		"category_id":   category.ID,
		"name":          "Front Brake Pads",
		"price":         4500,
		"compatibility": []string{"Toyota Fielder NZE141", "Honda Fit GE6"},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/products", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	product := decodeData[gormModels.Product](t, w)
	if product.Slug != "front-brake-pads" {
		t.Errorf("Unexpected slug %q", product.Slug)
	}

	rows := store.AllRows(constants.TableCompatibility)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 compatibility rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row["product_id"] != product.ID {
			t.Errorf("Row bound to wrong product: %v", row)
		}
		if row["vehicle_id"] != nil {
			t.Errorf("Label input must produce legacy rows, got %v", row["vehicle_id"])
		}
	}
}

func TestGetProductCompatibilityHandler(t *testing.T) {
	deps, store := newTestDeps(t)
	r := newTestRouter(NewHandlers(deps))

	productID := uuid.NewString()
	store.SeedRow(constants.TableCompatibility, map[string]interface{}{
		"id": uuid.NewString(), "product_id": productID,
		"vehicle_id": nil, "compat_label": "Toyota Vitz KSP130",
	})

	w := doJSON(t, r, http.MethodGet, "/api/v1/products/"+productID+"/compatibility", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	entries := decodeData[[]responses.CompatEntry](t, w)
	if len(entries) != 1 || !entries[0].IsLegacy {
		t.Fatalf("Expected one legacy entry, got %+v", entries)
	}
	if entries[0].Brand != "Toyota" || entries[0].Model != "Vitz" || entries[0].Code != "KSP130" {
		t.Errorf("Unexpected parsed entry: %+v", entries[0])
	}
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	deps, _ := newTestDeps(t)
	h := NewHandlers(deps)
	r := newTestRouter(h)

	category := decodeData[gormModels.Category](t,
		doJSON(t, r, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Filters"}))

	doJSON(t, r, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"category_id": category.ID, "name": "Oil Filter", "price": 900,
	})

	w := doJSON(t, r, http.MethodDelete, "/api/v1/categories/"+category.ID, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 while referenced, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown category is a plain 404.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/categories/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown category, got %d", w.Code)
	}
}

func TestSeedHandler_DryRun(t *testing.T) {
	deps, store := newTestDeps(t)
	r := newTestRouter(NewHandlers(deps))

	category := decodeData[gormModels.Category](t,
		doJSON(t, r, http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Suspension"}))
	doJSON(t, r, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"category_id": category.ID, "name": "Rear Shock", "price": 7000,
	})
	doJSON(t, r, http.MethodPost, "/api/v1/vehicles", map[string]interface{}{
		"brand": "Toyota", "model": "Fielder", "code": "NZE141",
	})

	w := doJSON(t, r, http.MethodPost, "/api/v1/compatibility/seed", map[string]interface{}{"dryRun": true})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	report := decodeData[responses.SeedReport](t, w)
	if !report.DryRun || !report.Ok {
		t.Errorf("Expected ok dry-run report, got %+v", report)
	}
	if report.TotalProducts != 1 || report.TotalVehicles != 1 {
		t.Errorf("Unexpected totals: %+v", report)
	}
	if store.RowCount(constants.TableCompatibility) != 0 {
		t.Error("Dry run must not write rows")
	}
}

func TestMigrationHandlers(t *testing.T) {
	deps, store := newTestDeps(t)
	r := newTestRouter(NewHandlers(deps))

	// Unknown change id.
	w := doJSON(t, r, http.MethodPost, "/api/v1/schema/migrate/no-such-change", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}

	// No DDL channel available: terminal manual state is still a 200.
	store.CreateTable(constants.TableVehicles, "id", "brand", "model", "code")
	w = doJSON(t, r, http.MethodPost, "/api/v1/schema/migrate/vehicle-year-columns", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for a terminal manual state, got %d: %s", w.Code, w.Body.String())
	}
	result := decodeData[responses.MigrationResult](t, w)
	if result.Ok || result.Method != schema.MethodManual {
		t.Errorf("Expected manual fallback, got %+v", result)
	}
	if result.SQL == "" {
		t.Error("Manual result must include the operator SQL")
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/schema/migrate/vehicle-year-columns", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	status := decodeData[responses.MigrationStatus](t, w)
	if status.Applied {
		t.Error("Capability must read absent before migration")
	}
	if status.ChangeID != "vehicle-year-columns" || status.SQL == "" {
		t.Errorf("Unexpected status payload: %+v", status)
	}
}

func TestListVehiclesCachedHandler(t *testing.T) {
	deps, _ := newTestDeps(t)
	r := newTestRouter(NewHandlers(deps))

	doJSON(t, r, http.MethodPost, "/api/v1/vehicles", map[string]interface{}{
		"brand": "Honda", "model": "Fit", "code": "GE6",
	})

	w := doJSON(t, r, http.MethodGet, "/api/v1/vehicles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	vehicles := decodeData[[]gormModels.Vehicle](t, w)
	if len(vehicles) != 1 {
		t.Fatalf("Expected 1 vehicle, got %d", len(vehicles))
	}

	// Create invalidates the list, so the next read sees both.
	doJSON(t, r, http.MethodPost, "/api/v1/vehicles", map[string]interface{}{
		"brand": "Toyota", "model": "Vitz", "code": "KSP130",
	})
	vehicles = decodeData[[]gormModels.Vehicle](t, doJSON(t, r, http.MethodGet, "/api/v1/vehicles", nil))
	if len(vehicles) != 2 {
		t.Errorf("Expected cache invalidation on create, got %d vehicles", len(vehicles))
	}
}
