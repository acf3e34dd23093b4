// Package callback runs the local HTTP endpoint an OAuth popup redirects
// back to. Each handshake gets its own short-lived server bound to one
// correlation token; the handler validates the state parameter, writes
// the handoff record, and nudges the waiting broker session.
package callback

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

const (
	// defaultPortStart and defaultPortEnd bound the redirect port range.
	// OAuth apps register localhost redirect URIs against these ports.
	defaultPortStart = 8080
	defaultPortEnd   = 8180

	// shutdownTimeout bounds the graceful server shutdown on Close.
	shutdownTimeout = 5 * time.Second
)

// Ensure Binder implements the interface.
var _ driven.CallbackBinder = (*Binder)(nil)

// Binder creates callback endpoints. It is the sole writer to the
// handoff store; broker sessions are the sole readers.
type Binder struct {
	handoff   driven.HandoffStore
	portStart int
	portEnd   int
}

// NewBinder creates a binder writing completed callbacks to the given store.
func NewBinder(handoff driven.HandoffStore) *Binder {
	return &Binder{
		handoff:   handoff,
		portStart: defaultPortStart,
		portEnd:   defaultPortEnd,
	}
}

// NewBinderWithPortRange creates a binder constrained to a port range.
func NewBinderWithPortRange(handoff driven.HandoffStore, start, end int) *Binder {
	return &Binder{handoff: handoff, portStart: start, portEnd: end}
}

// Bind starts a callback endpoint for one correlation token. The notify
// callback fires after a record has been written; it is a hint, and the
// record itself carries the result.
func (b *Binder) Bind(token domain.CorrelationToken, notify func()) (driven.CallbackEndpoint, error) {
	listener, err := b.listen()
	if err != nil {
		return nil, err
	}

	ep := &endpoint{
		token:    token,
		notify:   notify,
		handoff:  b.handoff,
		listener: listener,
		url:      fmt.Sprintf("http://localhost:%d/callback", listener.Addr().(*net.TCPAddr).Port),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", ep.handleCallback)
	ep.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := ep.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("callback endpoint: %v", err)
		}
	}()

	logger.Debug("callback endpoint listening at %s", ep.url)
	return ep, nil
}

// listen binds the first free port in the configured range.
func (b *Binder) listen() (net.Listener, error) {
	for port := b.portStart; port <= b.portEnd; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err == nil {
			return listener, nil
		}
	}
	return nil, fmt.Errorf("no available port in range %d-%d", b.portStart, b.portEnd)
}

// endpoint is one live callback server bound to one token.
type endpoint struct {
	token    domain.CorrelationToken
	notify   func()
	handoff  driven.HandoffStore
	server   *http.Server
	listener net.Listener
	url      string

	closeOnce sync.Once
	writeOnce sync.Once
}

// URL returns the redirect URI for this endpoint.
func (e *endpoint) URL() string {
	return e.url
}

// Close shuts the server down. Idempotent; safe to call from the broker's
// teardown path and from application shutdown.
func (e *endpoint) Close() error {
	var err error
	e.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = e.server.Shutdown(ctx)
	})
	return err
}

// handleCallback processes the provider's redirect. Exactly one record is
// ever written per endpoint: replayed or duplicated redirects render a
// page but change nothing.
func (e *endpoint) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// The state parameter must round-trip the correlation token exactly.
	// A mismatch is a stale or forged redirect and is never handed off.
	if state := query.Get("state"); state != string(e.token) {
		logger.Warn("callback: state mismatch for %s", e.token)
		w.WriteHeader(http.StatusBadRequest)
		renderPage(w, "Link failed", "This authorization link is stale. Close this window and retry from Sellbridge.")
		return
	}

	if errParam := query.Get("error"); errParam != "" {
		desc := query.Get("error_description")
		message := errParam
		if desc != "" {
			message = fmt.Sprintf("%s: %s", errParam, desc)
		}
		e.writeRecord(domain.HandoffRecord{Token: e.token, Err: message})
		renderPage(w, "Link failed", fmt.Sprintf("The marketplace reported: %s", html.EscapeString(message)))
		return
	}

	code := query.Get("code")
	if code == "" {
		e.writeRecord(domain.HandoffRecord{Token: e.token, Err: "no authorization code received"})
		renderPage(w, "Link failed", "The marketplace did not return an authorization code.")
		return
	}

	e.writeRecord(domain.HandoffRecord{
		Token: e.token,
		Payload: domain.HandoffPayload{
			AuthorizationCode: code,
			// Shopify identifies the shop on the redirect.
			ShopDomain: domain.NormalizeDomain(query.Get("shop")),
		},
	})
	renderPage(w, "Store linked", "You can close this window and return to Sellbridge.")
}

// writeRecord stores the record then fires the notify hint.
func (e *endpoint) writeRecord(record domain.HandoffRecord) {
	e.writeOnce.Do(func() {
		e.handoff.Put(record)
		if e.notify != nil {
			e.notify()
		}
	})
}

// renderPage writes the completion page. It tries to close itself; most
// browsers allow that for windows opened by script, and the closed-poll
// picks up the closure either way.
func renderPage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	//nolint:errcheck // Best-effort write to the popup window.
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>Sellbridge</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #F7F7F9;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 12px;
            border: 1px solid #D8D9DE;
        }
        h1 {
            color: #2D3748;
            margin: 0 0 8px 0;
            font-size: 22px;
            font-weight: 600;
        }
        p {
            color: #718096;
            margin: 0;
            font-size: 15px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
    <script>setTimeout(function() { window.close(); }, 1500);</script>
</body>
</html>`, title, message)
}
