package errors

// Error codes returned in the "error" field of JSON error bodies.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own copy.

const (
	// Catalog
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	CollectionNotFound = "COLLECTION_NOT_FOUND"
	CatalogUnavailable = "CATALOG_UNAVAILABLE"

	// Cart
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartSessionRequired = "CART_SESSION_REQUIRED"
	CartSessionInvalid  = "CART_SESSION_INVALID"

	// Automation jobs
	JobNotFound       = "JOB_NOT_FOUND"
	JobAlreadyRunning = "JOB_ALREADY_RUNNING"
	JobUnknownKind    = "JOB_UNKNOWN_KIND"
	JobUploadDisabled = "JOB_UPLOAD_DISABLED"

	// Catalog import
	ImportMissingFile  = "IMPORT_MISSING_FILE"
	ImportInvalidFile  = "IMPORT_INVALID_FILE"
	ImportFileTooLarge = "IMPORT_FILE_TOO_LARGE"

	// Generic
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"
)
