package errors

import "fmt"

var (
	// JWT and tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenIsNotRefresh    = fmt.Errorf("token is not a refresh token")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("malformed authorization header")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")

	// Context
	ErrUserIDNotFoundInContext   = fmt.Errorf("user id not found in request context")
	ErrTenantIDNotFoundInContext = fmt.Errorf("tenant id not found in request context")

	// Common
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("bad request")

	// Ledger
	ErrSweepInProgress = fmt.Errorf("a reconciliation sweep is already running")
)

// HttpError carries an HTTP status alongside the user-facing message and the
// underlying cause. Controllers build one on every failure path.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// DataAccessError marks a failed call to the backing store. The count
// primitive surfaces it so callers never mistake a failed count for zero.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed in %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func NewDataAccessError(op string, err error) error {
	return &DataAccessError{Op: op, Err: err}
}

// CounterWriteFailure marks a failed usage-counter adjustment. It is logged
// by the ledger and never propagated to the order save that triggered it.
type CounterWriteFailure struct {
	TenantID string
	Name     string
	Delta    int64
	Err      error
}

func (e *CounterWriteFailure) Error() string {
	return fmt.Sprintf("usage counter write failed for %q (tenant %s, delta %+d): %v", e.Name, e.TenantID, e.Delta, e.Err)
}

func (e *CounterWriteFailure) Unwrap() error { return e.Err }
