package domain

// Error is a marketplace failure with a stable code. Handlers map codes to
// HTTP statuses; the message is safe to return to callers.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Input validation — caller-correctable, reported before any mutation.
var (
	ErrInvalidListingType   = &Error{Code: "INVALID_LISTING_TYPE", Message: "Listing type must be sale or lease"}
	ErrMetadataURITooLong   = &Error{Code: "METADATA_URI_TOO_LONG", Message: "Metadata URI exceeds maximum length"}
	ErrCityNameTooLong      = &Error{Code: "CITY_NAME_TOO_LONG", Message: "City name must be 1-50 characters"}
	ErrCountryCodeInvalid   = &Error{Code: "COUNTRY_CODE_INVALID", Message: "Country code must be 2-3 characters"}
	ErrInvalidHeightRange   = &Error{Code: "INVALID_HEIGHT_RANGE", Message: "Invalid height range"}
	ErrInvalidPrice         = &Error{Code: "INVALID_PRICE", Message: "Invalid price"}
	ErrCoordinateOutOfRange = &Error{Code: "COORDINATE_OUT_OF_RANGE", Message: "Latitude or longitude out of range"}
)

// State conflicts — the listing's current status disagrees with the request.
var (
	ErrListingNotActive = &Error{Code: "LISTING_NOT_ACTIVE", Message: "Listing is not active"}
	ErrNotForSale       = &Error{Code: "NOT_FOR_SALE", Message: "Listing is not for sale"}
	ErrNotForLease      = &Error{Code: "NOT_FOR_LEASE", Message: "Listing is not for lease"}
)

// Authorization and record-store conflicts.
var (
	ErrUnauthorized           = &Error{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	ErrRegistryExists         = &Error{Code: "ALREADY_EXISTS", Message: "Registry already initialized"}
	ErrRegistryNotInitialized = &Error{Code: "NOT_FOUND", Message: "Registry not initialized"}
	ErrListingNotFound        = &Error{Code: "NOT_FOUND", Message: "Listing not found"}
	ErrLocationIndexNotFound  = &Error{Code: "NOT_FOUND", Message: "Location index not found"}
	ErrLeaseExists            = &Error{Code: "ALREADY_EXISTS", Message: "Lease record already exists"}
)

// Ledger transfer failures (external collaborator contract).
var (
	ErrInsufficientFunds    = &Error{Code: "INSUFFICIENT_FUNDS", Message: "Insufficient funds"}
	ErrTransferUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "Transfer not authorized"}
	ErrAccountNotFound      = &Error{Code: "NOT_FOUND", Message: "Ledger account not found"}
	ErrAccountExists        = &Error{Code: "ALREADY_EXISTS", Message: "Ledger account already exists"}
)

// Arithmetic — fee math aborts the operation instead of wrapping.
var ErrFeeOverflow = &Error{Code: "FEE_OVERFLOW", Message: "Fee computation overflowed"}
