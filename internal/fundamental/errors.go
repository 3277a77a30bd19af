package fundamental

import "errors"

var (
	// ErrUnknownField is returned when a field path is not present in
	// the registry. Caller error, never retried.
	ErrUnknownField = errors.New("unknown field")

	// ErrTypeMismatch is returned when a value is requested as a type
	// incompatible with the field's registered kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDuplicateEntry is returned when appending an entry whose
	// (effective time, filed time) pair already exists in the series.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrStoreFrozen is returned when appending after the ingestion
	// phase has been closed.
	ErrStoreFrozen = errors.New("store is frozen")
)
