package cmdtree

import "errors"

// Sentinel errors. Structured errors returned by this package wrap one of
// these as their cause, so callers can test with errors.Is.
var (
	// ErrDuplicateKey is returned when a command key is registered twice.
	ErrDuplicateKey = errors.New("cmdtree: duplicate command key")

	// ErrInvalidKey is returned for keys with empty segments or stray whitespace.
	ErrInvalidKey = errors.New("cmdtree: invalid command key")

	// ErrCircularReference is returned when a node is its own ancestor.
	ErrCircularReference = errors.New("cmdtree: circular reference in command tree")

	// ErrAlreadyBuilt is returned when the tree is modified after BuildTree.
	ErrAlreadyBuilt = errors.New("cmdtree: command tree already built")

	// ErrAlreadyAttached is returned when a node that has a parent is attached elsewhere.
	ErrAlreadyAttached = errors.New("cmdtree: command already attached to another parent")

	// ErrNilValue is returned when a nil value is stored in a CommandContext.
	ErrNilValue = errors.New("cmdtree: nil context value")

	// ErrTypeMismatch is returned when a stored value has a different type than requested.
	ErrTypeMismatch = errors.New("cmdtree: context value type mismatch")

	// ErrValueNotFound is returned by GetRequiredValue for unset keys.
	ErrValueNotFound = errors.New("cmdtree: context value not found")

	// ErrServiceNotRegistered is returned by Require for unregistered service types.
	ErrServiceNotRegistered = errors.New("cmdtree: service not registered")

	// ErrMissingOption is recorded when a required option was not provided.
	ErrMissingOption = errors.New("cmdtree: missing required option")

	// ErrMissingArgument is recorded when a required argument was not provided.
	ErrMissingArgument = errors.New("cmdtree: missing required argument")

	// ErrUnexpectedArgument is recorded for positional arguments nothing consumes.
	ErrUnexpectedArgument = errors.New("cmdtree: unexpected argument")

	// ErrInvalidValue is recorded when a value fails conversion or validation.
	ErrInvalidValue = errors.New("cmdtree: invalid value")
)
