// Package handoff provides the in-process handoff store used to pass
// OAuth callback results from the callback endpoint to the handshake
// broker. Records are keyed by correlation token and consumed exactly
// once.
package handoff
