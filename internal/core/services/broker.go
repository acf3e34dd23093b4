package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

const (
	// handshakeTimeout is the wall-clock ceiling for one handshake.
	handshakeTimeout = 5 * time.Minute

	// popupPollInterval is how often the closed-poll watcher checks the
	// popup handle.
	popupPollInterval = time.Second
)

// Ensure HandshakeBroker implements the interface.
var _ driving.HandshakeBroker = (*HandshakeBroker)(nil)

// HandshakeBroker mediates between the main window and the OAuth popup.
// For each started handshake it arms three watchers against one session
// and guarantees exactly one terminal outcome, with all timers, the
// callback endpoint, the popup handle, and the handoff record torn down
// on every resolution path.
type HandshakeBroker struct {
	handoff   driven.HandoffStore
	popups    driven.PopupLauncher
	callbacks driven.CallbackBinder
	minter    driven.AuthURLMinter
	registry  driving.MarketplaceRegistry
	clk       clock.Clock

	mu       sync.Mutex
	sessions map[string]*handshakeSession // keyed by marketplace ID
}

// NewHandshakeBroker creates a broker wired to real infrastructure.
func NewHandshakeBroker(
	handoff driven.HandoffStore,
	popups driven.PopupLauncher,
	callbacks driven.CallbackBinder,
	minter driven.AuthURLMinter,
	registry driving.MarketplaceRegistry,
) *HandshakeBroker {
	return NewHandshakeBrokerWithClock(handoff, popups, callbacks, minter, registry, clock.New())
}

// NewHandshakeBrokerWithClock creates a broker with an injected clock.
// Tests use a mock clock to drive the poll and timeout watchers.
func NewHandshakeBrokerWithClock(
	handoff driven.HandoffStore,
	popups driven.PopupLauncher,
	callbacks driven.CallbackBinder,
	minter driven.AuthURLMinter,
	registry driving.MarketplaceRegistry,
	clk clock.Clock,
) *HandshakeBroker {
	return &HandshakeBroker{
		handoff:   handoff,
		popups:    popups,
		callbacks: callbacks,
		minter:    minter,
		registry:  registry,
		clk:       clk,
		sessions:  make(map[string]*handshakeSession),
	}
}

// Start begins one handshake attempt. Setup failures (unknown
// marketplace, missing OAuth app, callback bind failure) are returned as
// errors because nothing was opened yet; once the popup step is reached,
// every failure is delivered as the session's outcome.
func (b *HandshakeBroker) Start(ctx context.Context, req driving.HandshakeRequest) (driving.Handshake, error) {
	if req.Marketplace == nil {
		return nil, domain.ErrInvalidInput
	}
	if !req.Marketplace.RequiresOAuth() {
		return nil, fmt.Errorf("marketplace %s: %w", req.Marketplace.ID, domain.ErrUnsupportedType)
	}

	token, err := NewCorrelationToken(req.OwnerUserID)
	if err != nil {
		return nil, err
	}

	app, err := b.registry.OAuthApp(req.Marketplace.ID)
	if err != nil {
		return nil, err
	}

	session := &handshakeSession{
		marketplace: req.Marketplace,
		token:       token,
		handoff:     b.handoff,
		clk:         b.clk,
		release:     func(s *handshakeSession) { b.release(req.Marketplace.ID, s) },
		nudges:      make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	// Precondition: one unresolved handshake per marketplace per process.
	b.mu.Lock()
	if existing, ok := b.sessions[req.Marketplace.ID]; ok && !existing.isResolved() {
		b.mu.Unlock()
		return nil, fmt.Errorf("marketplace %s: %w", req.Marketplace.ID, domain.ErrHandshakeInFlight)
	}
	b.sessions[req.Marketplace.ID] = session
	b.mu.Unlock()

	endpoint, err := b.callbacks.Bind(token, session.nudge)
	if err != nil {
		b.release(req.Marketplace.ID, session)
		return nil, fmt.Errorf("binding callback endpoint: %w", err)
	}
	session.endpoint = endpoint

	authURL, err := b.minter.Mint(ctx, req.Marketplace, app, endpoint.URL(), token, req.Params)
	if err != nil {
		session.teardown()
		b.release(req.Marketplace.ID, session)
		return nil, fmt.Errorf("minting authorization URL: %w", err)
	}

	session.authURL = authURL

	popup, err := b.popups.Open(authURL)
	if err != nil {
		// Popup blocked: resolve immediately, no watchers armed.
		logger.Warn("handshake %s: popup blocked: %v", token, err)
		session.resolve(domain.PopupBlockedOutcome())
		return session, nil
	}
	session.popup = popup

	logger.Debug("handshake %s: popup opened for %s", token, req.Marketplace.ID)
	go session.watchMessages()
	go session.watchClosedPoll(popupPollInterval)
	go session.watchTimeout(handshakeTimeout)

	return session, nil
}

// release removes the session from the in-flight table, but only if it is
// still the registered one; a newer session for the same marketplace must
// not be evicted by an older session's teardown.
func (b *HandshakeBroker) release(marketplaceID string, s *handshakeSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sessions[marketplaceID] == s {
		delete(b.sessions, marketplaceID)
	}
}
