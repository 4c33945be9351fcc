package services

import (
	"context"
	"testing"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/db/dbtest"
	"gearhouse/catalog/internal/schema"

	"github.com/google/uuid"
)

// Setup a compatibility table under either schema generation.
func newCompatStore(withRef bool) *dbtest.MemStore {
	store := dbtest.NewMemStore()
	cols := []string{"id", "product_id", "compat_label"}
	if withRef {
		cols = append(cols, "vehicle_id")
	}
	store.CreateTable(constants.TableCompatibility, cols...)
	return store
}

func newTestProbe(store db.Store) *schema.Probe {
	return schema.NewProbe(store, common.NewCacheService(time.Minute, time.Minute), time.Minute)
}

func TestReplaceCompatibility_MigratedSchema(t *testing.T) {
	store := newCompatStore(true)
	writer := NewCompatWriter(store, newTestProbe(store), nil)

	vehicleID := uuid.NewString()
	rows := []ResolvedCompat{
		{VehicleID: &vehicleID, Label: "Toyota Fielder NZE141 (2006-2012)"},
		{Label: "Honda Fit GE6"},
	}

	if err := writer.ReplaceCompatibility(context.Background(), "prod-1", rows); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stored := store.AllRows(constants.TableCompatibility)
	if len(stored) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(stored))
	}
	if stored[0]["vehicle_id"] != vehicleID {
		t.Errorf("Expected vehicle reference %s, got %v", vehicleID, stored[0]["vehicle_id"])
	}
	if stored[1]["vehicle_id"] != nil {
		t.Errorf("Expected legacy row to carry a nil reference, got %v", stored[1]["vehicle_id"])
	}
	for i, row := range stored {
		if row["compat_label"] == "" {
			t.Errorf("Row %d: label must always be written", i)
		}
	}
}

func TestReplaceCompatibility_LegacySchemaDropsReferences(t *testing.T) {
	store := newCompatStore(false)
	writer := NewCompatWriter(store, newTestProbe(store), nil)

	vehicleID := uuid.NewString()
	rows := []ResolvedCompat{
		{VehicleID: &vehicleID, Label: "Toyota Fielder NZE141"},
		{Label: "Honda Fit GE6"},
	}

	if err := writer.ReplaceCompatibility(context.Background(), "prod-1", rows); err != nil {
		t.Fatalf("Expected no error on the legacy schema, got %v", err)
	}

	stored := store.AllRows(constants.TableCompatibility)
	if len(stored) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(stored))
	}
	for i, row := range stored {
		if _, present := row["vehicle_id"]; present {
			t.Errorf("Row %d: vehicle_id must not reach a schema without the column", i)
		}
	}
	if stored[0]["compat_label"] != "Toyota Fielder NZE141" {
		t.Errorf("Label must survive the dropped reference, got %v", stored[0]["compat_label"])
	}
}

func TestReplaceCompatibility_FullReplacement(t *testing.T) {
	store := newCompatStore(true)
	writer := NewCompatWriter(store, newTestProbe(store), nil)

	store.SeedRow(constants.TableCompatibility, map[string]interface{}{
		"id": uuid.NewString(), "product_id": "prod-1", "compat_label": "Old Label", "vehicle_id": nil,
	})
	store.SeedRow(constants.TableCompatibility, map[string]interface{}{
		"id": uuid.NewString(), "product_id": "prod-2", "compat_label": "Other Product", "vehicle_id": nil,
	})

	if err := writer.ReplaceCompatibility(context.Background(), "prod-1", []ResolvedCompat{{Label: "New Label"}}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stored := store.AllRows(constants.TableCompatibility)
	if len(stored) != 2 {
		t.Fatalf("Expected 2 rows after replacement, got %d", len(stored))
	}
	for _, row := range stored {
		if row["product_id"] == "prod-1" && row["compat_label"] != "New Label" {
			t.Errorf("Old prod-1 row survived the replacement: %v", row)
		}
	}
}

func TestReplaceCompatibility_EmptySetClears(t *testing.T) {
	store := newCompatStore(true)
	writer := NewCompatWriter(store, newTestProbe(store), nil)

	store.SeedRow(constants.TableCompatibility, map[string]interface{}{
		"id": uuid.NewString(), "product_id": "prod-1", "compat_label": "Old Label", "vehicle_id": nil,
	})

	if err := writer.ReplaceCompatibility(context.Background(), "prod-1", nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n := store.RowCount(constants.TableCompatibility); n != 0 {
		t.Errorf("Expected empty set to clear all rows, %d remain", n)
	}
	if store.InsertCalls != 0 {
		t.Errorf("Expected no insert for an empty set, got %d calls", store.InsertCalls)
	}
}

func TestReplaceCompatibility_InsertFailureLeavesCleared(t *testing.T) {
	store := newCompatStore(true)
	store.FailInsertAt = 1
	writer := NewCompatWriter(store, newTestProbe(store), nil)

	store.SeedRow(constants.TableCompatibility, map[string]interface{}{
		"id": uuid.NewString(), "product_id": "prod-1", "compat_label": "Old Label", "vehicle_id": nil,
	})

	err := writer.ReplaceCompatibility(context.Background(), "prod-1", []ResolvedCompat{{Label: "New Label"}})
	if err == nil {
		t.Fatal("Expected error from the failed insert")
	}
	if n := store.RowCount(constants.TableCompatibility); n != 0 {
		t.Errorf("Expected the product left with zero rows after a failed insert, got %d", n)
	}
}

func TestReplaceCompatibility_DeleteFailureAborts(t *testing.T) {
	store := newCompatStore(true)
	store.FailDelete = true
	writer := NewCompatWriter(store, newTestProbe(store), nil)

	store.SeedRow(constants.TableCompatibility, map[string]interface{}{
		"id": uuid.NewString(), "product_id": "prod-1", "compat_label": "Old Label", "vehicle_id": nil,
	})

	err := writer.ReplaceCompatibility(context.Background(), "prod-1", []ResolvedCompat{{Label: "New Label"}})
	if err == nil {
		t.Fatal("Expected error from the failed delete")
	}
	if store.InsertCalls != 0 {
		t.Errorf("Expected no insert after a failed delete, got %d calls", store.InsertCalls)
	}
	if n := store.RowCount(constants.TableCompatibility); n != 1 {
		t.Errorf("Expected existing rows untouched after a failed delete, got %d", n)
	}
}
