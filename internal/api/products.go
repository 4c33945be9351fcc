package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gearhouse/catalog/internal/common"
	"gearhouse/catalog/internal/constants"
	"gearhouse/catalog/internal/db/repositories"
	"gearhouse/catalog/internal/models/dtos/requests"
	gormModels "gearhouse/catalog/internal/models/gorm"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const productListTTL = 10 * time.Minute

func (h *Handlers) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		key := fmt.Sprintf("%s%d_%d", constants.CachePrefixProductList, page, limit)
		products, err := common.GetOrSetTyped(h.deps.Services.Invalidator, key, constants.CacheTagProducts, productListTTL,
			func() ([]gormModels.Product, error) {
				return h.deps.Repo.Products.List(r.Context(), limit, (page-1)*limit)
			})
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list products")
			return
		}
		respondWithSuccess(w, http.StatusOK, &products)
	}
}

func (h *Handlers) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		product, err := h.deps.Repo.Products.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(w, http.StatusNotFound, constants.MsgProductNotFound)
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
			return
		}
		respondWithSuccess(w, http.StatusOK, product)
	}
}

func (h *Handlers) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.StatusInvalidPayload)
			return
		}
		if req.CategoryID == "" || req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "category_id and name are required")
			return
		}

		media, _ := json.Marshal(req.MediaURLs)
		condition := req.Condition
		if condition == "" {
			condition = "used"
		}

		product := &gormModels.Product{
			CategoryID: req.CategoryID,
			Name:       req.Name,
			Slug:       common.Slugify(req.Name),
			Price:      req.Price,
			SalePrice:  req.SalePrice,
			Stock:      req.Stock,
			Condition:  condition,
			MediaURLs:  string(media),
			IsFeatured: req.IsFeatured,
		}

		if err := h.deps.Repo.Products.Create(r.Context(), product); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				respondWithError(w, http.StatusConflict, "A product with this slug already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, constants.StatusInsertFailed)
			return
		}

		if len(req.Compatibility) > 0 {
			if err := h.replaceCompatibility(r, product.ID, req.Compatibility); err != nil {
				// Product exists but its compatibility is cleared; the
				// client should retry the compatibility edit.
				respondWithError(w, http.StatusInternalServerError, "Product created, compatibility write failed: "+err.Error())
				return
			}
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagProducts)
		respondWithSuccess(w, http.StatusCreated, product)
	}
}

func (h *Handlers) PatchProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req requests.PatchProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.StatusInvalidPayload)
			return
		}

		patch := map[string]interface{}{}
		if req.CategoryID != nil {
			patch["category_id"] = *req.CategoryID
		}
		if req.Name != nil {
			patch["name"] = *req.Name
			patch["slug"] = common.Slugify(*req.Name)
		}
		if req.Price != nil {
			patch["price"] = *req.Price
		}
		if req.SalePrice != nil {
			patch["sale_price"] = *req.SalePrice
		}
		if req.Stock != nil {
			patch["stock"] = *req.Stock
		}
		if req.Condition != nil {
			patch["condition"] = *req.Condition
		}
		if req.MediaURLs != nil {
			media, _ := json.Marshal(*req.MediaURLs)
			patch["media_urls"] = string(media)
		}
		if req.IsFeatured != nil {
			patch["is_featured"] = *req.IsFeatured
		}

		if len(patch) > 0 {
			if err := h.deps.Repo.Products.Update(r.Context(), id, patch); err != nil {
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					respondWithError(w, http.StatusNotFound, constants.MsgProductNotFound)
				case errors.Is(err, repositories.ErrDuplicate):
					respondWithError(w, http.StatusConflict, "A product with this slug already exists")
				default:
					respondWithError(w, http.StatusInternalServerError, "Failed to update product")
				}
				return
			}
		}

		if req.Compatibility != nil {
			if err := h.replaceCompatibility(r, id, *req.Compatibility); err != nil {
				respondWithError(w, http.StatusInternalServerError, "Compatibility write failed: "+err.Error())
				return
			}
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagProducts)

		product, err := h.deps.Repo.Products.GetByID(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, constants.MsgProductNotFound)
			return
		}
		respondWithSuccess(w, http.StatusOK, product)
	}
}

func (h *Handlers) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		n, err := h.deps.Repo.Products.Delete(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
			return
		}
		if n == 0 {
			respondWithError(w, http.StatusNotFound, constants.MsgProductNotFound)
			return
		}

		h.deps.Services.Invalidator.InvalidateTags(r.Context(), constants.CacheTagProducts)
		data := map[string]interface{}{"deleted": id}
		respondWithSuccess(w, http.StatusOK, &data)
	}
}

// GetProductCompatibility returns the normalized compatibility list.
func (h *Handlers) GetProductCompatibility() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		entries, err := h.deps.Services.Reader.GetCompatibility(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to read compatibility")
			return
		}
		respondWithSuccess(w, http.StatusOK, &entries)
	}
}

// replaceCompatibility resolves raw input and swaps the product's set.
func (h *Handlers) replaceCompatibility(r *http.Request, productID string, raw []string) error {
	rows, err := h.deps.Services.Resolver.Resolve(r.Context(), raw)
	if err != nil {
		return err
	}
	return h.deps.Services.Writer.ReplaceCompatibility(r.Context(), productID, rows)
}
