package errors

import "fmt"

// ErrorCode represents a Clockwork error code.
type ErrorCode string

const (
	ErrAmbiguousAddressing ErrorCode = "AMBIGUOUS_ADDRESSING" // 400
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrFileNotFound        ErrorCode = "FILE_NOT_FOUND"       // 404
	ErrNameAlreadyExists   ErrorCode = "NAME_ALREADY_EXISTS"  // 409
	ErrConflict            ErrorCode = "CONFLICT"             // 409
	ErrArchiveTooLarge     ErrorCode = "ARCHIVE_TOO_LARGE"    // 413
	ErrCorruptArchive      ErrorCode = "CORRUPT_ARCHIVE"      // 422
	ErrTableUnavailable    ErrorCode = "TABLE_UNAVAILABLE"    // 500
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// ClockworkError represents a structured error with code, status, and details.
type ClockworkError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ClockworkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAmbiguousAddressing creates a 400 error for when both ID and name are provided.
func NewAmbiguousAddressing() *ClockworkError {
	return &ClockworkError{
		Code:    ErrAmbiguousAddressing,
		Status:  400,
		Message: "cannot specify both id and game/name; use one addressing mode",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ClockworkError {
	return &ClockworkError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an indexed archive cannot be found.
func NewNotFound(identifier string) *ClockworkError {
	return &ClockworkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("archive not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing file on disk.
func NewFileNotFound(path string) *ClockworkError {
	return &ClockworkError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for name collisions.
func NewNameAlreadyExists(game, name string) *ClockworkError {
	return &ClockworkError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("archive named %q already indexed for game %q", name, game),
		Details: map[string]any{"game": game, "name": name},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *ClockworkError {
	return &ClockworkError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewArchiveTooLarge creates a 413 error when an input file exceeds the size cap.
func NewArchiveTooLarge(max, actual int64) *ClockworkError {
	return &ClockworkError{
		Code:    ErrArchiveTooLarge,
		Status:  413,
		Message: fmt.Sprintf("archive exceeds maximum size: %d bytes (max %d)", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewCorruptArchive creates a 422 error when a binary stream has no readable
// header. Damage past the header degrades to diagnostics, not to this error.
func NewCorruptArchive(err error) *ClockworkError {
	msg := "archive header unreadable"
	if err != nil {
		msg = err.Error()
	}
	return &ClockworkError{
		Code:    ErrCorruptArchive,
		Status:  422,
		Message: msg,
	}
}

// NewTableUnavailable creates a 500 error for a character table that cannot
// be loaded. Without a table no codec operation can run.
func NewTableUnavailable(err error) *ClockworkError {
	msg := "character table unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &ClockworkError{
		Code:    ErrTableUnavailable,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ClockworkError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ClockworkError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ClockworkError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*ClockworkError); ok {
		return cErr.Code == code
	}
	return false
}
