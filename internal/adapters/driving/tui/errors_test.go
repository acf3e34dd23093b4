package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingRegistry,
		ErrMissingStoreService,
		ErrMissingBroker,
		ErrMissingExchanger,
		ErrMissingOwner,
		ErrInvalidPorts,
	}

	// Ensure all errors are unique
	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingRegistry_Message(t *testing.T) {
	assert.Contains(t, ErrMissingRegistry.Error(), "marketplace registry")
}

func TestErrMissingStoreService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingStoreService.Error(), "store service")
}

func TestErrMissingBroker_Message(t *testing.T) {
	assert.Contains(t, ErrMissingBroker.Error(), "handshake broker")
}

func TestErrMissingExchanger_Message(t *testing.T) {
	assert.Contains(t, ErrMissingExchanger.Error(), "token exchanger")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
