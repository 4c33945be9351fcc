package constants

type (
	APIStatus   string
	CachePrefix string
	CacheTag    string
)

const (
	// Envelope status values for APIResponse.
	APIStatusSuccess APIStatus = "success"
	APIStatusError   APIStatus = "error"

	CachePrefixProductList   CachePrefix = "PRODUCTS_PAGE_"
	CachePrefixProductCompat CachePrefix = "PRODUCT_COMPAT_"
	CachePrefixVehicleList   CachePrefix = "VEHICLES_ALL"
	CachePrefixCategoryList  CachePrefix = "CATEGORIES_ALL"
	CachePrefixCapability    CachePrefix = "SCHEMA_CAP_"

	CacheTagProducts   CacheTag = "products"
	CacheTagVehicles   CacheTag = "vehicles"
	CacheTagCategories CacheTag = "categories"
)

// Tables the generic store and the capability probe operate on. Tables only
// the ORM touches are named by their gorm models instead.
const (
	TableVehicles      = "vehicles"
	TableProducts      = "products"
	TableCompatibility = "product_compatibility"
)

// Optional columns whose existence depends on the deployed schema generation.
const (
	ColumnVehicleRef  = "vehicle_id"
	ColumnYearStart   = "year_start"
	ColumnYearEnd     = "year_end"
	ColumnIsFeatured  = "is_featured"
	ColumnCompatLabel = "compat_label"
)
