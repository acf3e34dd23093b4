package services

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// Ensure handshakeSession implements the driving port.
var _ driving.Handshake = (*handshakeSession)(nil)

// handshakeSession is one in-flight broker invocation. Three watcher
// goroutines race to resolve it; whichever wins performs the test-and-set
// on resolved and runs the single teardown path. The others observe the
// closed stop channel and exit without side effects.
type handshakeSession struct {
	marketplace *domain.Marketplace
	token       domain.CorrelationToken
	authURL     string
	popup       driven.PopupHandle
	endpoint    driven.CallbackEndpoint
	handoff     driven.HandoffStore
	clk         clock.Clock
	release     func(*handshakeSession)

	// nudges carries callback-page hints to the message watcher.
	// Capacity 1: a hint is a level signal, not a queue.
	nudges chan struct{}
	// stop is closed exactly once, on resolution, tearing down watchers.
	stop chan struct{}
	// done is closed after the outcome is recorded; Wait blocks on it.
	done chan struct{}

	mu       sync.Mutex
	resolved bool
	outcome  domain.Outcome
}

// Token returns the correlation token bound to this attempt.
func (s *handshakeSession) Token() domain.CorrelationToken {
	return s.token
}

// AuthURL returns the authorization URL the popup opened.
func (s *handshakeSession) AuthURL() string {
	return s.authURL
}

// CallbackURL returns the redirect URI bound to this attempt.
func (s *handshakeSession) CallbackURL() string {
	if s.endpoint == nil {
		return ""
	}
	return s.endpoint.URL()
}

// Wait blocks until the session resolves. Context cancellation cancels
// the handshake and still returns the (Cancelled) outcome rather than an
// error: every started handshake yields exactly one outcome.
func (s *handshakeSession) Wait(ctx context.Context) domain.Outcome {
	select {
	case <-s.done:
	case <-ctx.Done():
		s.Cancel()
		<-s.done
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Cancel forces popup closure and resolves as Cancelled. A no-op once
// the session has resolved.
func (s *handshakeSession) Cancel() {
	s.resolve(domain.CancelledOutcome())
}

// nudge is invoked by the callback endpoint when the popup's completion
// page has written its record. It is a hint only; dropped nudges are
// recovered by the closed-poll watcher.
func (s *handshakeSession) nudge() {
	select {
	case s.nudges <- struct{}{}:
	default:
	}
}

// isResolved reports whether a terminal outcome has been produced.
func (s *handshakeSession) isResolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// resolve performs the exclusive test-and-set on the session outcome and,
// when it wins, the single teardown path: stop watchers, close the popup
// and callback endpoint, consume any leftover handoff record, release the
// broker slot. Returns false when the session was already resolved.
func (s *handshakeSession) resolve(outcome domain.Outcome) bool {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return false
	}
	s.resolved = true
	s.outcome = outcome
	s.mu.Unlock()

	close(s.stop)
	if s.popup != nil {
		_ = s.popup.Close()
	}
	if s.endpoint != nil {
		_ = s.endpoint.Close()
	}
	s.handoff.Delete(s.token)
	if s.release != nil {
		s.release(s)
	}
	close(s.done)

	logger.Debug("handshake %s (%s): resolved %s", s.token, s.marketplace.ID, outcome.Kind)
	return true
}

// teardown releases resources for a session that never opened a popup
// (setup failure after the callback endpoint was bound).
func (s *handshakeSession) teardown() {
	if s.endpoint != nil {
		_ = s.endpoint.Close()
	}
}

// watchMessages resolves the session when a callback hint arrives and a
// matching handoff record is actually present. The hint alone never
// resolves anything: the store is the source of truth.
func (s *handshakeSession) watchMessages() {
	for {
		select {
		case <-s.stop:
			return
		case <-s.nudges:
			if record, ok := s.handoff.TakeIfPresent(s.token); ok {
				s.resolve(record.Outcome())
				return
			}
		}
	}
}

// watchClosedPoll checks once per interval whether the popup has gone
// away. On closure it performs one final handoff read before declaring
// Cancelled, so a record written milliseconds before the window closed is
// reported as the record's outcome rather than as a cancellation.
func (s *handshakeSession) watchClosedPoll(interval time.Duration) {
	ticker := s.clk.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if !s.popup.Closed() {
				continue
			}
			if record, ok := s.handoff.TakeIfPresent(s.token); ok {
				s.resolve(record.Outcome())
			} else {
				s.resolve(domain.CancelledOutcome())
			}
			return
		}
	}
}

// watchTimeout enforces the wall-clock ceiling. It supersedes the other
// watchers: the popup is forced shut and the outcome is TimedOut even if
// the window was still open.
func (s *handshakeSession) watchTimeout(ceiling time.Duration) {
	timer := s.clk.Timer(ceiling)
	defer timer.Stop()
	select {
	case <-s.stop:
	case <-timer.C:
		s.resolve(domain.TimedOutOutcome())
	}
}
