package tui

import "errors"

// ErrMissingRegistry is returned when the marketplace registry is not provided.
var ErrMissingRegistry = errors.New("tui: marketplace registry is required")

// ErrMissingStoreService is returned when the store service is not provided.
var ErrMissingStoreService = errors.New("tui: store service is required")

// ErrMissingBroker is returned when the handshake broker is not provided.
var ErrMissingBroker = errors.New("tui: handshake broker is required")

// ErrMissingExchanger is returned when the token exchanger is not provided.
var ErrMissingExchanger = errors.New("tui: token exchanger is required")

// ErrMissingOwner is returned when no owner user ID is provided.
var ErrMissingOwner = errors.New("tui: owner user id is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
