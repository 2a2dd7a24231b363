package depot

import "errors"

var (
	// ErrStoreRequired is returned when a record store is not provided.
	ErrStoreRequired = errors.New("record store required")

	// ErrInvalidWriteTimeout is returned when a non-positive write timeout
	// is configured.
	ErrInvalidWriteTimeout = errors.New("write timeout must be positive")
)
