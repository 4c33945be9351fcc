package services

import (
	"context"
	"fmt"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/models/dtos/responses"
	"gearhouse/catalog/internal/schema"
)

// readCacheTTL bounds staleness when an invalidation is missed.
const readCacheTTL = 10 * time.Minute

type CompatReader struct {
	store    db.Store
	probe    *schema.Probe
	vehicles VehicleFinder
	inv      *common.Invalidator // optional
}

func NewCompatReader(store db.Store, probe *schema.Probe, vehicles VehicleFinder, inv *common.Invalidator) *CompatReader {
	return &CompatReader{store: store, probe: probe, vehicles: vehicles, inv: inv}
}

// GetCompatibility returns one canonical list for the product regardless of
// which schema generation each underlying row uses.
func (r *CompatReader) GetCompatibility(ctx context.Context, productID string) ([]responses.CompatEntry, error) {
	if r.inv == nil {
		return r.load(ctx, productID)
	}

	key := string(constants.CachePrefixProductCompat) + productID
	return common.GetOrSetTyped(r.inv, key, constants.CacheTagProducts, readCacheTTL,
		func() ([]responses.CompatEntry, error) {
			return r.load(ctx, productID)
		})
}

func (r *CompatReader) load(ctx context.Context, productID string) ([]responses.CompatEntry, error) {
	rows, err := r.store.Select(ctx, constants.TableCompatibility, nil, db.Filter{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch compatibility rows: %w", err)
	}

	withRef := r.probe.CapabilityExists(ctx, constants.TableCompatibility, constants.ColumnVehicleRef)

	var vehicleIDs []string
	if withRef {
		for _, row := range rows {
			if id, ok := row[constants.ColumnVehicleRef].(string); ok && id != "" {
				vehicleIDs = append(vehicleIDs, id)
			}
		}
	}

	byID := map[string]int{}
	var vehicles []responses.CompatEntry
	if len(vehicleIDs) > 0 {
		found, err := r.vehicles.FindByIDs(ctx, vehicleIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch referenced vehicles: %w", err)
		}
		for i := range found {
			v := &found[i]
			vid := v.ID
			popular := v.IsPopular
			byID[v.ID] = len(vehicles)
			vehicles = append(vehicles, responses.CompatEntry{
				VehicleID: &vid,
				Brand:     v.Brand,
				Model:     v.Model,
				Code:      v.Code,
				YearStart: v.YearStart,
				YearEnd:   v.YearEnd,
				IsPopular: &popular,
				Label:     VehicleLabel(v),
			})
		}
	}

	entries := make([]responses.CompatEntry, 0, len(rows))
	for _, row := range rows {
		label, _ := row[constants.ColumnCompatLabel].(string)

		if withRef {
			if id, ok := row[constants.ColumnVehicleRef].(string); ok && id != "" {
				if idx, found := byID[id]; found {
					entry := vehicles[idx]
					if label != "" {
						// Stored label wins for display even when stale.
						entry.Label = label
					}
					entries = append(entries, entry)
					continue
				}
			}
		}

		brand, model, code := ParseLegacyLabel(label)
		entries = append(entries, responses.CompatEntry{
			Brand:    brand,
			Model:    model,
			Code:     code,
			Label:    label,
			IsLegacy: true,
		})
	}
	return entries, nil
}
