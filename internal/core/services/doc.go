// Package services implements core business logic for Sellbridge.
// Services implement the driving ports and depend only on domain types
// and driven ports, never on concrete adapters.
//
// The centrepiece is the HandshakeBroker, which mediates the cross-window
// OAuth handshake: it opens the popup, then races three independent
// signals (callback notification, popup-closed poll, wall-clock timeout)
// to produce exactly one terminal outcome per attempt.
package services
