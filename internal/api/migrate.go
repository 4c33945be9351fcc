package api

import (
	"net/http"

	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/models/dtos/responses"
	"gearhouse/catalog/internal/schema"

	"github.com/go-chi/chi/v5"
)

// RunSchemaMigration drives one registered schema change to a terminal
// state. The HTTP status is 200 for every terminal outcome, including the
// manual fallback; ok=false plus the SQL in the body tells the operator
// what remains.
func (h *Handlers) RunSchemaMigration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		change, found := schema.ChangeByID(chi.URLParam(r, "changeID"))
		if !found {
			respondWithError(w, http.StatusNotFound, constants.MsgUnknownChange)
			return
		}

		res := h.deps.Services.Migrator.Apply(r.Context(), change)
		result := responses.MigrationResult{
			Ok:      res.Ok,
			Method:  res.Method,
			Message: res.Message,
			SQL:     res.SQL,
		}
		respondWithSuccess(w, http.StatusOK, &result)
	}
}

// GetSchemaMigrationStatus reports whether a change's capability is live,
// always including the manual DDL for reference.
func (h *Handlers) GetSchemaMigrationStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		change, found := schema.ChangeByID(chi.URLParam(r, "changeID"))
		if !found {
			respondWithError(w, http.StatusNotFound, constants.MsgUnknownChange)
			return
		}

		status := responses.MigrationStatus{
			ChangeID: change.ID,
			Applied:  h.deps.Services.Migrator.Status(r.Context(), change),
			SQL:      schema.ManualSQL(change),
		}
		respondWithSuccess(w, http.StatusOK, &status)
	}
}

// ListSchemaMigrations enumerates every registered change with its current
// capability state.
func (h *Handlers) ListSchemaMigrations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changes := schema.Changes()
		statuses := make([]responses.MigrationStatus, 0, len(changes))
		for _, change := range changes {
			statuses = append(statuses, responses.MigrationStatus{
				ChangeID: change.ID,
				Applied:  h.deps.Services.Migrator.Status(r.Context(), change),
				SQL:      schema.ManualSQL(change),
			})
		}
		respondWithSuccess(w, http.StatusOK, &statuses)
	}
}
