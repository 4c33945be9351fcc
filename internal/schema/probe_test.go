package schema

import (
	"context"
	"testing"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/db/dbtest"
)

func newProbeOver(store *dbtest.MemStore) *Probe {
	return NewProbe(store, common.NewCacheService(time.Minute, time.Minute), time.Minute)
}

func TestCapabilityExists(t *testing.T) {
	store := dbtest.NewMemStore()
	store.CreateTable("widgets", "id", "name")
	probe := newProbeOver(store)

	ctx := context.Background()
	if !probe.CapabilityExists(ctx, "widgets", "name") {
		t.Error("Expected existing column to probe true")
	}
	if probe.CapabilityExists(ctx, "widgets", "flag") {
		t.Error("Expected missing column to probe false")
	}
	if probe.CapabilityExists(ctx, "gadgets", "id") {
		t.Error("Expected missing table to probe false")
	}
}

func TestCapabilityExists_MemoizedUntilInvalidate(t *testing.T) {
	store := dbtest.NewMemStore()
	store.CreateTable("widgets", "id")
	probe := newProbeOver(store)

	ctx := context.Background()
	if probe.CapabilityExists(ctx, "widgets", "flag") {
		t.Fatal("Column should not exist yet")
	}

	store.AddColumn("widgets", "flag")

	if probe.CapabilityExists(ctx, "widgets", "flag") {
		t.Error("Memoized answer must survive a schema change until invalidated")
	}

	probe.Invalidate()

	if !probe.CapabilityExists(ctx, "widgets", "flag") {
		t.Error("Expected fresh probe to see the new column after Invalidate")
	}
}

func TestCapabilityExists_TTLExpiry(t *testing.T) {
	store := dbtest.NewMemStore()
	store.CreateTable("widgets", "id")
	probe := NewProbe(store, common.NewCacheService(time.Minute, time.Minute), 10*time.Millisecond)

	ctx := context.Background()
	if probe.CapabilityExists(ctx, "widgets", "flag") {
		t.Fatal("Column should not exist yet")
	}

	store.AddColumn("widgets", "flag")
	time.Sleep(20 * time.Millisecond)

	if !probe.CapabilityExists(ctx, "widgets", "flag") {
		t.Error("Expected the answer to refresh once the TTL lapses")
	}
}
