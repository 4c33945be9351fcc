package requests

// CreateVehicleRequest registers a vehicle in the normalized registry.
type CreateVehicleRequest struct {
	Brand     string `json:"brand" validate:"required"`
	Model     string `json:"model" validate:"required"`
	Code      string `json:"code" validate:"required"`
	YearStart *int   `json:"year_start"`
	YearEnd   *int   `json:"year_end"`
	IsPopular bool   `json:"is_popular"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateProductRequest creates a catalog item. Compatibility entries are
// either vehicle ids or free-text labels; a batch with any non-id element is
// treated as all labels.
type CreateProductRequest struct {
	CategoryID    string   `json:"category_id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Price         float64  `json:"price" validate:"required"`
	SalePrice     *float64 `json:"sale_price"`
	Stock         int      `json:"stock"`
	Condition     string   `json:"condition"`
	MediaURLs     []string `json:"media_urls"`
	IsFeatured    bool     `json:"is_featured"`
	Compatibility []string `json:"compatibility"`
}

// PatchProductRequest mutates an existing product. Nil fields are left
// untouched; a non-nil Compatibility fully replaces the existing set.
type PatchProductRequest struct {
	CategoryID    *string   `json:"category_id"`
	Name          *string   `json:"name"`
	Price         *float64  `json:"price"`
	SalePrice     *float64  `json:"sale_price"`
	Stock         *int      `json:"stock"`
	Condition     *string   `json:"condition"`
	MediaURLs     *[]string `json:"media_urls"`
	IsFeatured    *bool     `json:"is_featured"`
	Compatibility *[]string `json:"compatibility"`
}
