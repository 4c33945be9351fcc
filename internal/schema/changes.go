package schema

import "gearhouse/catalog/internal/constants"

// Change is one additive schema migration. Table/Column name the capability
// whose presence proves the change is applied. Every DDL statement is
// written so re-running it is a no-op.
type Change struct {
	ID          string
	Description string
	Table       string
	Column      string
	DDL         []string
}

var changes = []Change{
	{
		ID:          "vehicle-ref-column",
		Description: "Add the vehicle foreign key to product compatibility rows",
		Table:       constants.TableCompatibility,
		Column:      constants.ColumnVehicleRef,
		DDL: []string{
			`ALTER TABLE product_compatibility ADD COLUMN IF NOT EXISTS vehicle_id uuid REFERENCES vehicles(id) ON DELETE CASCADE`,
			`CREATE INDEX IF NOT EXISTS idx_product_compatibility_vehicle_id ON product_compatibility (vehicle_id)`,
		},
	},
	{
		ID:          "vehicle-year-columns",
		Description: "Add production year range columns to vehicles",
		Table:       constants.TableVehicles,
		Column:      constants.ColumnYearStart,
		DDL: []string{
			`ALTER TABLE vehicles ADD COLUMN IF NOT EXISTS year_start integer`,
			`ALTER TABLE vehicles ADD COLUMN IF NOT EXISTS year_end integer`,
		},
	},
	{
		ID:          "product-flag-columns",
		Description: "Add the featured flag to products and relax sale_price nullability",
		Table:       constants.TableProducts,
		Column:      constants.ColumnIsFeatured,
		DDL: []string{
			`ALTER TABLE products ADD COLUMN IF NOT EXISTS is_featured boolean NOT NULL DEFAULT false`,
			`ALTER TABLE products ALTER COLUMN sale_price DROP NOT NULL`,
		},
	},
}

// Changes lists every registered schema change in application order.
func Changes() []Change {
	return changes
}

// ChangeByID looks up a change by its id.
func ChangeByID(id string) (Change, bool) {
	for _, c := range changes {
		if c.ID == id {
			return c, true
		}
	}
	return Change{}, false
}
