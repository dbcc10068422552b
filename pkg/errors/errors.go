package errors

import "errors"

var (
	// Vector errors
	ErrVectorExists    = errors.New("vector already exists")
	ErrVectorNotFound  = errors.New("vector not found")
	ErrInvalidName     = errors.New("invalid vector name")
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrEmptyVector     = errors.New("vector is empty")
	ErrVectorDestroyed = errors.New("vector used after destroy")

	// WAL errors
	ErrCorruptRecord = errors.New("corrupt wal record")
	ErrUnknownOp     = errors.New("unknown wal op")
	ErrMissingCreate = errors.New("wal does not start with a create record")

	// Config errors
	ErrInvalidLogLevel = errors.New("invalid log level")

	// Utility errors
	ErrMemStatUnavailable = errors.New("process memory stats unavailable")
	ErrDivideByZero       = errors.New("division by zero")
)
