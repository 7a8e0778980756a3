package interfaces

import "errors"

var (
	// ErrVersionConflict is returned when a conditional or transactional write
	// loses against a concurrent writer of the same entity.
	ErrVersionConflict = errors.New("version conflict")
	// ErrAlreadyExists is returned when a create collides with an existing key.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPendingRequestExists is returned when the worker already holds the
	// pending payment request lock.
	ErrPendingRequestExists = errors.New("pending payment request exists")
	// ErrCorruptRecord is returned when a stored item cannot be decoded into
	// its entity, e.g. a money attribute that is not a decimal.
	ErrCorruptRecord = errors.New("corrupt stored record")
)
