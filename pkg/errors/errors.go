package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrQueryFailed      = errors.New("query failed")
	ErrUnknownReport    = errors.New("unknown report")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on the domain sentinel carried in Code, so a wrapped
// driver error still answers to ErrStoreUnavailable/ErrQueryFailed.
func (e *BusinessError) Is(target error) bool {
	switch target {
	case ErrStoreUnavailable:
		return e.Code == ErrCodeStoreUnavailable
	case ErrQueryFailed:
		return e.Code == ErrCodeQueryFailed
	case ErrUnknownReport:
		return e.Code == ErrCodeUnknownReport
	}
	return false
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeQueryFailed      = "QUERY_FAILED"
	ErrCodeUnknownReport    = "UNKNOWN_REPORT"
	ErrCodeCacheError       = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapStoreUnavailable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStoreUnavailable,
		"Database connection unavailable",
		err,
	)
}

func WrapQueryFailed(table string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeQueryFailed,
		fmt.Sprintf("loading %s failed", table),
		err,
	)
}

func WrapUnknownReport(reportID string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnknownReport,
		fmt.Sprintf("Report %q does not exist", reportID),
		ErrUnknownReport,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// CodeOf returns the BusinessError code in err's chain, or "" when there is none.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
