// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewStores is the linked store management view.
	ViewStores
	// ViewConnect is the link-a-store wizard.
	ViewConnect
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewStores:
		return "stores"
	case ViewConnect:
		return "connect"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// StoresLoaded carries the list of linked stores from the service.
type StoresLoaded struct {
	Connections []domain.StoreConnection
	Err         error
}

// StoreLinked signals a store connection was created or updated.
type StoreLinked struct {
	Connection domain.StoreConnection
	Err        error
}

// StoreRemoved signals a store connection was removed.
type StoreRemoved struct {
	ID  string
	Err error
}

// StoreRenamed signals a store connection's display name was changed.
type StoreRenamed struct {
	Connection domain.StoreConnection
	Err        error
}

// HandshakeResolved carries the outcome of an authorisation handshake.
// Exactly one of these arrives per handshake.
type HandshakeResolved struct {
	Outcome domain.Outcome
}
