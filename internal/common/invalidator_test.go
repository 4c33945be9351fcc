package common

import (
	"context"
	"testing"
	"time"

	"gearhouse/catalog/internal/constants"
)

func TestInvalidator_GetOrSetCaches(t *testing.T) {
	inv := NewInvalidator(NewCacheService(time.Minute, time.Minute), nil)

	loads := 0
	loader := func() (any, error) {
		loads++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		val, err := inv.GetOrSet("key-1", constants.CacheTagProducts, time.Minute, loader)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if val != "value" {
			t.Fatalf("Expected cached value, got %v", val)
		}
	}
	if loads != 1 {
		t.Errorf("Expected a single load, got %d", loads)
	}
}

func TestGetOrSetTyped_RecoversDecodedJSONShape(t *testing.T) {
	type part struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	cache := NewCacheService(time.Minute, time.Minute)
	inv := NewInvalidator(cache, nil)

	// A Redis-backed cache hands back decoded JSON, not the concrete type.
	cache.Set("parts-all", []interface{}{
		map[string]interface{}{"name": "Brake Pad", "price": 4500.0},
		map[string]interface{}{"name": "Oil Filter", "price": 900.0},
	}, time.Minute)

	parts, err := GetOrSetTyped(inv, "parts-all", constants.CacheTagProducts, time.Minute,
		func() ([]part, error) {
			t.Fatal("A cache hit must not reach the loader")
			return nil, nil
		})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(parts) != 2 || parts[0].Name != "Brake Pad" || parts[1].Price != 900 {
		t.Errorf("Decoded-JSON hit must convert to the concrete type, got %+v", parts)
	}
}

func TestGetOrSetTyped_PassesThroughConcreteHit(t *testing.T) {
	inv := NewInvalidator(NewCacheService(time.Minute, time.Minute), nil)

	loads := 0
	load := func() ([]int, error) {
		loads++
		return []int{1, 2, 3}, nil
	}

	for i := 0; i < 2; i++ {
		vals, err := GetOrSetTyped(inv, "ints", constants.CacheTagProducts, time.Minute, load)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(vals) != 3 {
			t.Fatalf("Expected 3 values, got %d", len(vals))
		}
	}
	if loads != 1 {
		t.Errorf("Expected a single load, got %d", loads)
	}
}

func TestInvalidator_InvalidateTagsEvicts(t *testing.T) {
	inv := NewInvalidator(NewCacheService(time.Minute, time.Minute), nil)

	loads := map[string]int{}
	get := func(key string, tag constants.CacheTag) {
		_, err := inv.GetOrSet(key, tag, time.Minute, func() (any, error) {
			loads[key]++
			return key, nil
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	get("products-page-1", constants.CacheTagProducts)
	get("vehicles-all", constants.CacheTagVehicles)

	inv.InvalidateTags(context.Background(), constants.CacheTagProducts)

	get("products-page-1", constants.CacheTagProducts)
	get("vehicles-all", constants.CacheTagVehicles)

	if loads["products-page-1"] != 2 {
		t.Errorf("Invalidated key must reload, got %d loads", loads["products-page-1"])
	}
	if loads["vehicles-all"] != 1 {
		t.Errorf("Unrelated tag must stay cached, got %d loads", loads["vehicles-all"])
	}
}

func TestInvalidator_MultipleTags(t *testing.T) {
	inv := NewInvalidator(NewCacheService(time.Minute, time.Minute), nil)

	loads := 0
	load := func() {
		_, _ = inv.GetOrSet("vehicles-all", constants.CacheTagVehicles, time.Minute, func() (any, error) {
			loads++
			return "v", nil
		})
	}

	load()
	inv.InvalidateTags(context.Background(), constants.CacheTagProducts, constants.CacheTagVehicles)
	load()

	if loads != 2 {
		t.Errorf("Expected reload after multi-tag invalidation, got %d loads", loads)
	}
}
