package driven

// PopupLauncher opens the separate browser context in which the user
// completes the third-party authorization flow.
type PopupLauncher interface {
	// Open launches a popup at the given URL and returns a handle owned
	// exclusively by the calling handshake session. A non-nil error means
	// the popup was blocked and no window exists.
	Open(url string) (PopupHandle, error)
}

// PopupHandle is the broker's view of one open popup window.
// Implementations are not required to be safe for concurrent Close calls
// from multiple sessions; a handle belongs to exactly one session.
type PopupHandle interface {
	// Closed reports whether the popup window has gone away, either
	// because the user dismissed it or because it closed itself after
	// completing the flow.
	Closed() bool

	// Close forces the popup shut. Closing an already-closed popup is a
	// no-op and must not error.
	Close() error
}
