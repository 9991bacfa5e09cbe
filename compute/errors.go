package compute

import "errors"

var (
	// ErrUnknownBackend is returned by Open for unregistered backend names.
	ErrUnknownBackend = errors.New("compute: unknown backend")

	// ErrNoDevice is returned when a backend finds no usable adapter.
	ErrNoDevice = errors.New("compute: no device available")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("compute: resource released")

	// ErrInvalidDimensions is returned for non-positive image sizes.
	ErrInvalidDimensions = errors.New("compute: invalid dimensions")

	// ErrOutOfRange is returned when a buffer range exceeds the buffer.
	ErrOutOfRange = errors.New("compute: range out of bounds")

	// ErrIncompleteDispatch is returned when a dispatch is missing a binding
	// or has an empty group size.
	ErrIncompleteDispatch = errors.New("compute: incomplete dispatch")

	// ErrGroupTooLarge is returned when a thread group exceeds the pipeline.
	ErrGroupTooLarge = errors.New("compute: thread group exceeds pipeline limit")

	// ErrGridTooSmall is returned when a dispatch does not cover its image.
	ErrGridTooSmall = errors.New("compute: grid does not cover image")

	// ErrForeignResource is returned when a resource from another backend or
	// device is bound.
	ErrForeignResource = errors.New("compute: resource belongs to another device")
)
