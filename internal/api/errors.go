package api

import (
	"errors"
	"fmt"
)

// NotFoundError represents a resource not found error with contextual information.
type NotFoundError struct {
	// ResourceType categorizes the missing resource (e.g. "tool", "registry entry").
	ResourceType string

	// ResourceName is the identifier that was looked up.
	ResourceName string

	// Message overrides the default message when set.
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

var (
	// NewToolNotFoundError creates an installed tool not found error.
	NewToolNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("tool", name)
	}

	// NewRegistryEntryNotFoundError creates a registry catalog not found error.
	NewRegistryEntryNotFoundError = func(name string) *NotFoundError {
		return &NotFoundError{
			ResourceType: "registry entry",
			ResourceName: name,
			Message:      fmt.Sprintf("tool %s not found in registry", name),
		}
	}
)

// ValidationError reports input the caller can correct and retry.
type ValidationError struct {
	// Field names the offending input, when known.
	Field string
	// Reason is the human-readable cause.
	Reason string
	// Err optionally wraps a sentinel such as ErrRegistryEmpty.
	Err error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Unwrap supports errors.Is on wrapped sentinels.
func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InfrastructureError reports a failure of the environment (disk, network)
// rather than of the request. Retrying later may succeed.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// NewInfrastructureError wraps err with the operation that failed.
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructure returns true if err is or wraps an InfrastructureError.
func IsInfrastructure(err error) bool {
	var ie *InfrastructureError
	return errors.As(err, &ie)
}

// Sentinel errors. Use errors.Is to check.
var (
	// ErrConnectorTimeout marks a probe or aggregation that hit its deadline.
	ErrConnectorTimeout = errors.New("connector timed out")

	// ErrConnectorUnreachable marks a spawn or network failure while connecting.
	ErrConnectorUnreachable = errors.New("connector unreachable")

	// ErrConfigConflict marks a write that could not take the store lock.
	ErrConfigConflict = errors.New("tools file is locked by another writer")

	// ErrRegistryEmpty is returned by operations that need a non-empty catalog.
	ErrRegistryEmpty = errors.New("tool registry is empty")

	// ErrRecommenderUnavailable is returned when no recommendation backend is configured.
	ErrRecommenderUnavailable = errors.New("tool recommendation is not configured")
)
