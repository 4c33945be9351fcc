package api

import (
	"encoding/json"
	"net/http"

	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/models/dtos/requests"
)

// SeedCompatibility wipes and regenerates the whole compatibility table from
// a weighted distribution. Destructive; admin-only by routing.
func (h *Handlers) SeedCompatibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.SeedRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondWithError(w, http.StatusBadRequest, constants.StatusInvalidPayload)
				return
			}
		}

		report, err := h.deps.Services.Seeder.Seed(r.Context(), req.DryRun, req.Seed)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Seeding failed: "+err.Error())
			return
		}

		// A partial run still returns 200: the report itself carries
		// ok=false plus the committed row count.
		respondWithSuccess(w, http.StatusOK, report)
	}
}

// PreviewSeedDistribution reports the pools a run would draw from without
// touching any data.
func (h *Handlers) PreviewSeedDistribution() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preview, err := h.deps.Services.Seeder.Preview(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to build distribution preview")
			return
		}
		respondWithSuccess(w, http.StatusOK, preview)
	}
}
