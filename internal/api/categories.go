package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db/repositories"
	"gearhouse/catalog/internal/models/dtos/requests"
	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/go-chi/chi/v5"
)

const categoryListTTL = 10 * time.Minute

func (h *Handlers) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := string(constants.CachePrefixCategoryList)
		categories, err := common.GetOrSetTyped(h.deps.Services.Invalidator, key, constants.CacheTagCategories, categoryListTTL,
			func() ([]gormModels.Category, error) {
				return h.deps.Repo.Categories.List(r.Context())
			})
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list categories")
			return
		}
		respondWithSuccess(w, http.StatusOK, &categories)
	}
}

func (h *Handlers) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			respondWithError(w, http.StatusBadRequest, constants.StatusInvalidPayload)
			return
		}

		category := &gormModels.Category{Name: req.Name}
		if err := h.deps.Repo.Categories.Create(r.Context(), category); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				respondWithError(w, http.StatusConflict, constants.MsgCategoryConflict)
				return
			}
			respondWithError(w, http.StatusInternalServerError, constants.StatusInsertFailed)
			return
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagCategories)
		respondWithSuccess(w, http.StatusCreated, category)
	}
}

// DeleteCategory refuses to remove a category that products still reference,
// reporting the blocking count so the operator knows the cleanup size.
func (h *Handlers) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		count, err := h.deps.Repo.Products.CountByCategory(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to check category references")
			return
		}
		if count > 0 {
			respondWithError(w, http.StatusConflict,
				fmt.Sprintf("%s: %d products still reference it", constants.MsgCategoryReferenced, count))
			return
		}

		n, err := h.deps.Repo.Categories.Delete(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete category")
			return
		}
		if n == 0 {
			respondWithError(w, http.StatusNotFound, constants.MsgCategoryNotFound)
			return
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagCategories)
		data := map[string]interface{}{"deleted": id}
		respondWithSuccess(w, http.StatusOK, &data)
	}
}
