package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewToolNotFoundError("maps")
	assert.Equal(t, "tool maps not found", err.Error())
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotFound(errors.New("plain")))

	reg := NewRegistryEntryNotFoundError("github")
	assert.Equal(t, "tool github not found in registry", reg.Error())
	assert.True(t, IsNotFound(reg))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("config.url", "%s config is missing the 'url' field", TransportSSE)
	assert.Equal(t, "sse config is missing the 'url' field", err.Error())
	assert.Equal(t, "config.url", err.Field)
	assert.True(t, IsValidation(fmt.Errorf("install: %w", err)))
	assert.False(t, IsInfrastructure(err))

	wrapped := &ValidationError{Reason: "no catalog", Err: ErrRegistryEmpty}
	assert.True(t, errors.Is(wrapped, ErrRegistryEmpty))
}

func TestInfrastructureError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewInfrastructureError("save tool config", cause)
	assert.Equal(t, "save tool config: permission denied", err.Error())
	assert.True(t, IsInfrastructure(err))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsValidation(err))
}
