package intersection

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of contract violation.
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	// Controller was not built with New
	ErrCodeNotInitialized
	// Controller was already closed
	ErrCodeClosed
	// Leave named a route with no resident
	ErrCodeNotResident
	// Close found vehicles still inside
	ErrCodeResidentsRemain
	// Close found vehicles still waiting to enter
	ErrCodeWaitersRemain
)

var (
	ErrNotInitialized  = errors.New("intersection: controller not initialized")
	ErrClosed          = errors.New("intersection: controller closed")
	ErrNotResident     = errors.New("intersection: no resident on route")
	ErrResidentsRemain = errors.New("intersection: residents remain at close")
	ErrWaitersRemain   = errors.New("intersection: vehicles still waiting at close")
)

var codeErrors = map[ErrorCode]error{
	ErrCodeNotInitialized:  ErrNotInitialized,
	ErrCodeClosed:          ErrClosed,
	ErrCodeNotResident:     ErrNotResident,
	ErrCodeResidentsRemain: ErrResidentsRemain,
	ErrCodeWaitersRemain:   ErrWaitersRemain,
}

// ContractError is the panic value raised when a caller breaks the
// Enter/Leave/Close protocol. These indicate a bug in the driver and are
// never returned as ordinary errors.
type ContractError struct {
	Code    ErrorCode
	Route   Route
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: %s", codeErrors[e.Code], e.Message)
}

// Unwrap lets errors.Is match the sentinel for e.Code.
func (e *ContractError) Unwrap() error { return codeErrors[e.Code] }

func violation(code ErrorCode, r Route, format string, args ...any) {
	panic(&ContractError{Code: code, Route: r, Message: fmt.Sprintf(format, args...)})
}
