package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/logging"
	"gearhouse/catalog/internal/metrics"
	"gearhouse/catalog/internal/models/dtos/responses"
	gormModels "gearhouse/catalog/internal/models/gorm"
	"gearhouse/catalog/internal/schema"

	"github.com/google/uuid"
)

const (
	seedBatchSize  = 500
	seedBatchDelay = 50 * time.Millisecond // deliberate throttle, not correctness
	crossPoolRate  = 0.10
	coverageSlice  = 20 // coverage sweep assigns into the first N products
	sampleSize     = 10

	primaryShare   = 0.60
	secondaryShare = 0.25
)

// ProductIDLister and VehicleLister are the repository slices the seeder
// consumes.
type ProductIDLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

type VehicleLister interface {
	List(ctx context.Context) ([]gormModels.Vehicle, error)
}

// Seeder generates a full compatibility dataset from scratch. A real run is
// a destructive reseed: existing rows are deleted wholesale first.
type Seeder struct {
	store    db.Store
	probe    *schema.Probe
	products ProductIDLister
	vehicles VehicleLister
	inv      *common.Invalidator // optional

	// Metrics is optional; tests leave it nil.
	Metrics *metrics.MetricsRegistry
}

func NewSeeder(store db.Store, probe *schema.Probe, products ProductIDLister, vehicles VehicleLister, inv *common.Invalidator) *Seeder {
	return &Seeder{store: store, probe: probe, products: products, vehicles: vehicles, inv: inv}
}

type seedRow struct {
	productID string
	vehicle   *gormModels.Vehicle
}

type pool struct {
	name     string
	vehicles []*gormModels.Vehicle
}

// buildPools partitions the registry into a primary-brand pool, a
// secondary-brand pool and a remainder pool. The two largest brands take
// the named pools; everything else lands in the remainder.
func buildPools(vehicles []gormModels.Vehicle) []pool {
	counts := map[string]int{}
	for i := range vehicles {
		counts[vehicles[i].Brand]++
	}

	primary, secondary := "", ""
	for brand, n := range counts {
		switch {
		case primary == "" || n > counts[primary] || (n == counts[primary] && brand < primary):
			secondary = primary
			primary = brand
		case secondary == "" || n > counts[secondary] || (n == counts[secondary] && brand < secondary):
			secondary = brand
		}
	}

	pools := []pool{{name: "primary"}, {name: "secondary"}, {name: "remainder"}}
	for i := range vehicles {
		v := &vehicles[i]
		switch v.Brand {
		case primary:
			pools[0].vehicles = append(pools[0].vehicles, v)
		case secondary:
			pools[1].vehicles = append(pools[1].vehicles, v)
		default:
			pools[2].vehicles = append(pools[2].vehicles, v)
		}
	}
	return pools
}

// poolForRank maps a product's fractional rank among all products onto a
// pool index. Assignment by rank, not per-item coin flips, keeps the
// aggregate 60/25/15 split exact for any dataset size.
func poolForRank(index, total int) int {
	frac := float64(index) / float64(total)
	switch {
	case frac < primaryShare:
		return 0
	case frac < primaryShare+secondaryShare:
		return 1
	default:
		return 2
	}
}

// buildPlan computes the full target row set. Deterministic given the rng.
func buildPlan(productIDs []string, vehicles []gormModels.Vehicle, rng *rand.Rand) []seedRow {
	if len(productIDs) == 0 || len(vehicles) == 0 {
		return nil
	}

	pools := buildPools(vehicles)
	covered := make(map[string]bool, len(vehicles))
	var plan []seedRow

	assign := func(productID string, v *gormModels.Vehicle) {
		plan = append(plan, seedRow{productID: productID, vehicle: v})
		covered[v.ID] = true
	}

	for i, productID := range productIDs {
		pi := poolForRank(i, len(productIDs))
		p := pools[pi]
		if len(p.vehicles) == 0 {
			p = pool{name: "all", vehicles: allVehicles(vehicles)}
		}

		n := 1 + rng.Intn(4)
		if n > len(p.vehicles) {
			n = len(p.vehicles)
		}
		for _, idx := range rng.Perm(len(p.vehicles))[:n] {
			assign(productID, p.vehicles[idx])
		}

		// Occasional cross-pool row models real-world parts overlap.
		if rng.Float64() < crossPoolRate {
			next := pools[(pi+1)%len(pools)]
			if len(next.vehicles) > 0 {
				assign(productID, next.vehicles[rng.Intn(len(next.vehicles))])
			}
		}
	}

	// Coverage sweep: every registry vehicle must appear at least once.
	slice := len(productIDs)
	if slice > coverageSlice {
		slice = coverageSlice
	}
	for i := range vehicles {
		v := &vehicles[i]
		if !covered[v.ID] {
			assign(productIDs[rng.Intn(slice)], v)
		}
	}

	return plan
}

func allVehicles(vehicles []gormModels.Vehicle) []*gormModels.Vehicle {
	out := make([]*gormModels.Vehicle, len(vehicles))
	for i := range vehicles {
		out[i] = &vehicles[i]
	}
	return out
}

// Seed runs one seeding pass. With dryRun it reports the plan without
// touching the store. seed pins the pseudo-random source for reproducible
// runs; nil seeds from the clock.
func (s *Seeder) Seed(ctx context.Context, dryRun bool, seed *int64) (*responses.SeedReport, error) {
	productIDs, err := s.products.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	seedVal := time.Now().UnixNano()
	if seed != nil {
		seedVal = *seed
	}
	rng := rand.New(rand.NewSource(seedVal))

	plan := buildPlan(productIDs, vehicles, rng)

	report := &responses.SeedReport{
		Ok:            true,
		DryRun:        dryRun,
		TotalProducts: len(productIDs),
		TotalVehicles: len(vehicles),
		TotalRows:     len(plan),
	}
	for i := 0; i < len(plan) && i < sampleSize; i++ {
		report.Sample = append(report.Sample, responses.SeedSample{
			ProductID: plan[i].productID,
			VehicleID: plan[i].vehicle.ID,
			Label:     VehicleLabel(plan[i].vehicle),
		})
	}

	if dryRun {
		return report, nil
	}

	runStart := time.Now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.SeedRunDuration.Observe(time.Since(runStart).Seconds())
		}
	}()

	withRef := s.probe.CapabilityExists(ctx, constants.TableCompatibility, constants.ColumnVehicleRef)

	// Destructive by design: a reseed replaces the whole dataset.
	if _, err := s.store.Delete(ctx, constants.TableCompatibility, db.Filter{}); err != nil {
		report.Ok = false
		report.Error = fmt.Sprintf("failed to clear existing compatibility data: %v", err)
		return report, nil
	}

	inserted := 0
	for start := 0; start < len(plan); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(plan) {
			end = len(plan)
		}

		batch := make([]map[string]interface{}, 0, end-start)
		for _, row := range plan[start:end] {
			m := map[string]interface{}{
				"id":           uuid.NewString(),
				"product_id":   row.productID,
				"compat_label": VehicleLabel(row.vehicle),
			}
			if withRef {
				m[constants.ColumnVehicleRef] = row.vehicle.ID
			}
			batch = append(batch, m)
		}

		if err := s.store.Insert(ctx, constants.TableCompatibility, batch); err != nil {
			report.Ok = false
			report.Inserted = inserted
			report.Error = fmt.Sprintf("batch starting at row %d failed after %d rows committed: %v", start, inserted, err)
			logging.Error("seed batch failed", "start", start, "inserted", inserted, "error", err.Error())
			return report, nil
		}
		inserted += end - start

		// Sequential batches with a pause bound the load on the store and
		// leave an inspectable progress trail.
		if end < len(plan) {
			time.Sleep(seedBatchDelay)
		}
	}

	report.Inserted = inserted
	if s.Metrics != nil {
		s.Metrics.SeedRowsTotal.Add(float64(inserted))
	}
	if s.inv != nil {
		s.inv.InvalidateTags(ctx, constants.CacheTagProducts, constants.CacheTagVehicles)
	}
	logging.Info("seed complete", "rows", inserted, "products", len(productIDs), "vehicles", len(vehicles), "seed", seedVal)
	return report, nil
}

// Preview describes the pool partition a run would use, without mutating
// anything or consuming randomness.
func (s *Seeder) Preview(ctx context.Context) (*responses.DistributionPreview, error) {
	productIDs, err := s.products.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	preview := &responses.DistributionPreview{
		TotalProducts: len(productIDs),
		TotalVehicles: len(vehicles),
	}
	shares := []float64{primaryShare, secondaryShare, 1 - primaryShare - secondaryShare}
	for i, p := range buildPools(vehicles) {
		preview.Pools = append(preview.Pools, responses.PoolPreview{
			Name:     p.name,
			Vehicles: len(p.vehicles),
			Share:    shares[i],
		})
	}
	return preview, nil
}
