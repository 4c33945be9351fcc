package services

import (
	"context"
	"fmt"
	"strings"

	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/google/uuid"
)

// ResolvedCompat is one compatibility row ready to persist under either
// schema generation: the writer decides whether the vehicle reference
// reaches the database. A nil VehicleID marks the legacy form.
type ResolvedCompat struct {
	VehicleID *string
	Label     string
}

// VehicleFinder is the slice of the vehicle repository the resolver and
// reader need.
type VehicleFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]gormModels.Vehicle, error)
}

type CompatResolver struct {
	vehicles VehicleFinder
}

func NewCompatResolver(vehicles VehicleFinder) *CompatResolver {
	return &CompatResolver{vehicles: vehicles}
}

// Resolve turns caller-supplied compatibility input into persistable rows.
// The batch is identifier-shaped only when every element parses as a UUID;
// a mixed batch is stored as all-legacy labels rather than partially
// resolved. Identifiers that match no vehicle are dropped silently: partial
// catalogs are normal mid-migration and during seeding.
func (r *CompatResolver) Resolve(ctx context.Context, raw []string) ([]ResolvedCompat, error) {
	inputs := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			inputs = append(inputs, t)
		}
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	allIDs := true
	for _, s := range inputs {
		if _, err := uuid.Parse(s); err != nil {
			allIDs = false
			break
		}
	}

	if !allIDs {
		rows := make([]ResolvedCompat, len(inputs))
		for i, label := range inputs {
			rows[i] = ResolvedCompat{Label: label}
		}
		return rows, nil
	}

	vehicles, err := r.vehicles.FindByIDs(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vehicle ids: %w", err)
	}

	byID := make(map[string]*gormModels.Vehicle, len(vehicles))
	for i := range vehicles {
		byID[vehicles[i].ID] = &vehicles[i]
	}

	rows := make([]ResolvedCompat, 0, len(inputs))
	for _, id := range inputs {
		v, ok := byID[id]
		if !ok {
			continue
		}
		vid := v.ID
		rows = append(rows, ResolvedCompat{
			VehicleID: &vid,
			Label:     VehicleLabel(v),
		})
	}
	return rows, nil
}
