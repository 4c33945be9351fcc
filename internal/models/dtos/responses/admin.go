package responses

// SeedReport summarizes one seeding run. Inserted is the number of rows
// committed before a failure, so an operator can diagnose a partial run.
type SeedReport struct {
	Ok            bool         `json:"ok"`
	DryRun        bool         `json:"dryRun"`
	TotalProducts int          `json:"totalProducts"`
	TotalVehicles int          `json:"totalVehicles"`
	TotalRows     int          `json:"totalRows"`
	Inserted      int          `json:"inserted"`
	Sample        []SeedSample `json:"sample,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type SeedSample struct {
	ProductID string `json:"product_id"`
	VehicleID string `json:"vehicle_id"`
	Label     string `json:"label"`
}

// DistributionPreview describes the vehicle pools a seed run would use.
type DistributionPreview struct {
	TotalProducts int           `json:"totalProducts"`
	TotalVehicles int           `json:"totalVehicles"`
	Pools         []PoolPreview `json:"pools"`
}

type PoolPreview struct {
	Name     string  `json:"name"`
	Vehicles int     `json:"vehicles"`
	Share    float64 `json:"share"`
}

// MigrationResult is the outcome of one schema-change invocation. Method is
// one of already_done, auto, manual or failed. SQL carries the manual DDL
// when the automated channels could not run it.
type MigrationResult struct {
	Ok      bool   `json:"ok"`
	Method  string `json:"method"`
	Message string `json:"message"`
	SQL     string `json:"sql,omitempty"`
}

// MigrationStatus is the read-only capability view of one schema change.
type MigrationStatus struct {
	ChangeID string `json:"change_id"`
	Applied  bool   `json:"applied"`
	SQL      string `json:"sql"`
}
