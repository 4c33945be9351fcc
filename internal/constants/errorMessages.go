package constants

const (
	StatusError          = "Error"
	StatusNotFound       = "Not Found"
	StatusConflict       = "Conflict"
	StatusInsertFailed   = "Unable to insert"
	StatusDeleteBlocked  = "Delete blocked by existing references"
	StatusManualStep     = "Manual migration step required"
	StatusSeedPartial    = "Seeding aborted mid-run"
	StatusUnauthorized   = "Unauthorized"
	StatusInvalidPayload = "Invalid request payload"
)

const (
	MsgVehicleConflict    = "A vehicle with this brand, model and code already exists"
	MsgCategoryConflict   = "A category with this slug already exists"
	MsgProductNotFound    = "Product not found"
	MsgVehicleNotFound    = "Vehicle not found"
	MsgCategoryNotFound   = "Category not found"
	MsgUnknownChange      = "Unknown schema change id"
	MsgCategoryReferenced = "Category is still referenced by products"
)
