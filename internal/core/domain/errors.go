package domain

import "errors"

var (
	// ErrNotFound is returned when an operation targets an itemID with no
	// matching cart record.
	ErrNotFound = errors.New("cart item not found")

	// ErrCorruptRecord is returned when a stored record cannot be fully
	// reconstructed (missing item id, non-positive count). Treated as data
	// corruption, never skipped silently.
	ErrCorruptRecord = errors.New("corrupt cart record")

	// ErrPersistence is returned when the underlying medium could not
	// complete a read or write. Never retried internally.
	ErrPersistence = errors.New("cart persistence failure")

	// ErrInvalidCount is returned when a caller passes a count below 1 to
	// SetCount. Removing a line is an explicit RemoveItem, not a zero write.
	ErrInvalidCount = errors.New("cart item count must be at least 1")

	// ErrInvalidItem is returned when a caller passes an empty itemID where
	// a real catalog key is required.
	ErrInvalidItem = errors.New("cart item id must not be empty")
)
