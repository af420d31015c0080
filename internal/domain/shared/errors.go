package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrLockTimeout       = NewDomainError("LOCK_TIMEOUT", "Could not acquire store lock within the wait bound")
	ErrSignatureMismatch = NewDomainError("SIGNATURE_MISMATCH", "Callback signature verification failed")
	ErrUnknownTrade      = NewDomainError("UNKNOWN_TRADE", "No pending payment recorded for this trade number")
	ErrUnmatchedRecord   = NewDomainError("UNMATCHED_RECORD", "Snapshot line has no corresponding ledger row")
)
