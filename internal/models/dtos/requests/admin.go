package requests

type SeedRequest struct {
	DryRun bool   `json:"dryRun"`
	Seed   *int64 `json:"seed"`
}
