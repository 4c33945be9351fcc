package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db/repositories"
	"gearhouse/catalog/internal/models/dtos/requests"
	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

const vehicleListTTL = 10 * time.Minute

func (h *Handlers) ListVehicles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := string(constants.CachePrefixVehicleList)
		vehicles, err := common.GetOrSetTyped(h.deps.Services.Invalidator, key, constants.CacheTagVehicles, vehicleListTTL,
			func() ([]gormModels.Vehicle, error) {
				return h.deps.Repo.Vehicles.List(r.Context())
			})
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list vehicles")
			return
		}
		respondWithSuccess(w, http.StatusOK, &vehicles)
	}
}

func (h *Handlers) CreateVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.StatusInvalidPayload)
			return
		}
		if req.Brand == "" || req.Model == "" || req.Code == "" {
			respondWithError(w, http.StatusBadRequest, "brand, model and code are required")
			return
		}

		vehicle := &gormModels.Vehicle{
			Brand:     req.Brand,
			Model:     req.Model,
			Code:      req.Code,
			YearStart: req.YearStart,
			YearEnd:   req.YearEnd,
			IsPopular: req.IsPopular,
		}

		if err := h.deps.Repo.Vehicles.Create(r.Context(), vehicle); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				respondWithError(w, http.StatusConflict, constants.MsgVehicleConflict)
				return
			}
			respondWithError(w, http.StatusInternalServerError, constants.StatusInsertFailed)
			return
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagVehicles)
		respondWithSuccess(w, http.StatusCreated, vehicle)
	}
}

// DeleteVehicle removes a registry entry. Compatibility rows referencing it
// are cascade-deleted, so product caches are invalidated too.
func (h *Handlers) DeleteVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		n, err := h.deps.Repo.Vehicles.Delete(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete vehicle")
			return
		}
		if n == 0 {
			respondWithError(w, http.StatusNotFound, constants.MsgVehicleNotFound)
			return
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagVehicles, constants.CacheTagProducts)
		data := map[string]interface{}{"deleted": id}
		respondWithSuccess(w, http.StatusOK, &data)
	}
}
