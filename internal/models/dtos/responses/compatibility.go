package responses

// CompatEntry is the canonical shape of one compatibility row regardless of
// which schema generation produced it. Legacy rows carry best-effort
// brand/model/code parsed from the label and nil year/popularity fields.
type CompatEntry struct {
	VehicleID *string `json:"vehicle_id"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Code      string  `json:"code"`
	YearStart *int    `json:"year_start"`
	YearEnd   *int    `json:"year_end"`
	IsPopular *bool   `json:"is_popular"`
	Label     string  `json:"label"`
	IsLegacy  bool    `json:"is_legacy"`
}
