// Package popup opens the OAuth authorization page in a browser window
// and exposes a handle the broker can poll for closure.
package popup
