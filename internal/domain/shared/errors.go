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

// Is matches domain errors by code so wrapped copies compare equal
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrTimeout       = NewDomainError("TIMEOUT", "The operation took too long and was cancelled")
	ErrUpstream      = NewDomainError("UPSTREAM_UNAVAILABLE", "An external service is unavailable")
	ErrHasDependents = NewDomainError("HAS_DEPENDENTS", "Resource is still referenced by other records")
	ErrOutOfStock    = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrNotConfigured = NewDomainError("NOT_CONFIGURED", "Feature is not configured on this server")
)
