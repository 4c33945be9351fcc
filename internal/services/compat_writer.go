package services

import (
	"context"
	"fmt"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/logging"
	"gearhouse/catalog/internal/schema"

	"github.com/google/uuid"
)

type CompatWriter struct {
	store db.Store
	probe *schema.Probe
	inv   *common.Invalidator // optional
}

func NewCompatWriter(store db.Store, probe *schema.Probe, inv *common.Invalidator) *CompatWriter {
	return &CompatWriter{store: store, probe: probe, inv: inv}
}

// ReplaceCompatibility swaps a product's whole compatibility set: delete
// everything, then insert the new rows. No diffing, no partial patches.
// A delete failure aborts before any insert; an insert failure leaves the
// product with zero rows, so callers must treat a failed write as
// "compatibility cleared" and retry.
//
// Two concurrent calls for the same product race at the database and the
// last delete+insert pair to commit wins. Acceptable for a single-admin
// back office; documented, not guarded.
func (w *CompatWriter) ReplaceCompatibility(ctx context.Context, productID string, rows []ResolvedCompat) error {
	if _, err := w.store.Delete(ctx, constants.TableCompatibility, db.Filter{"product_id": productID}); err != nil {
		return fmt.Errorf("failed to clear compatibility for product %s: %w", productID, err)
	}

	if len(rows) == 0 {
		w.invalidate(ctx)
		return nil
	}

	withRef := w.probe.CapabilityExists(ctx, constants.TableCompatibility, constants.ColumnVehicleRef)

	dropped := 0
	insertRows := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		m := map[string]interface{}{
			"id":           uuid.NewString(),
			"product_id":   productID,
			"compat_label": row.Label,
		}
		if withRef {
			if row.VehicleID != nil {
				m["vehicle_id"] = *row.VehicleID
			} else {
				m["vehicle_id"] = nil
			}
		} else if row.VehicleID != nil {
			// Pre-migration schema has nowhere to put the reference. The
			// label still carries the vehicle identity, and the column will
			// be backfilled once migrated.
			dropped++
		}
		insertRows = append(insertRows, m)
	}

	if dropped > 0 {
		logging.Warn("vehicle references dropped, reference column not migrated yet",
			"product_id", productID,
			"dropped", dropped,
		)
	}

	if err := w.store.Insert(ctx, constants.TableCompatibility, insertRows); err != nil {
		return fmt.Errorf("compatibility insert failed, product %s left cleared: %w", productID, err)
	}

	w.invalidate(ctx)
	return nil
}

func (w *CompatWriter) invalidate(ctx context.Context) {
	if w.inv != nil {
		w.inv.InvalidateTags(ctx, constants.CacheTagProducts)
	}
}
