package tracking

import "errors"

// Error kinds returned by the engine. Callers discriminate with errors.Is;
// handlers map them to HTTP status codes.
var (
	// ErrNotFound means the tracking record or line item id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the operation is not allowed from the
	// category's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidInput means the request payload is malformed: unknown
	// category, negative quantity, and the like.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence means a backing-store write failed. The enclosing
	// transaction is rolled back; no partial state is ever left behind.
	ErrPersistence = errors.New("persistence failure")
)
