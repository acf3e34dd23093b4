package exchange

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// exchangeTimeout bounds one token-endpoint round trip.
const exchangeTimeout = 30 * time.Second

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// Exchanger swaps authorization codes for access tokens at the
// marketplace's token endpoint.
type Exchanger struct {
	client  *http.Client
	limiter *RateLimiter
}

// NewExchanger creates an Exchanger with its own HTTP client and rate limiter.
func NewExchanger() *Exchanger {
	return &Exchanger{
		client:  &http.Client{Timeout: exchangeTimeout},
		limiter: NewRateLimiter(),
	}
}

// Exchange performs the code-for-token exchange. For marketplaces with a
// per-shop token endpoint the shop domain comes from params; everywhere
// else params is ignored.
func (e *Exchanger) Exchange(ctx context.Context, m *domain.Marketplace, app driven.OAuthApp, code, callbackURL string, params domain.HandshakeParams) (*domain.OAuthCredentials, error) {
	if m.OAuth == nil {
		return nil, fmt.Errorf("marketplace %s: %w", m.ID, domain.ErrOAuthNotConfigured)
	}
	if code == "" {
		return nil, fmt.Errorf("empty authorization code: %w", domain.ErrInvalidInput)
	}

	tokenURL, err := resolveEndpoint(m.OAuth.TokenURL, params)
	if err != nil {
		return nil, fmt.Errorf("marketplace %s: %w", m.ID, err)
	}

	if err := e.limiter.Wait(ctx, m.Platform); err != nil {
		return nil, fmt.Errorf("waiting for rate limit: %w", err)
	}

	cfg := oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		Scopes:       app.Scopes,
		RedirectURL:  callbackURL,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client)
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code with %s: %w", m.ID, err)
	}

	creds := &domain.OAuthCredentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		creds.Scope = scope
	}

	logger.Debug("exchange: obtained token for %s (expires %s)", m.ID, token.Expiry)
	return creds, nil
}

