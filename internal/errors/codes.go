package errors

// Error codes are stable identifiers shared with API clients and templates.
// Format: CATEGORY_SPECIFIC_DETAIL
const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong username or password
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"   // password and confirmation differ
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // username taken
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"        // email taken

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError  = "INTERNAL_SERVER_ERROR"
	InternalSessionStore = "INTERNAL_SESSION_STORE"
)
