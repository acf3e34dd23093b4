package connect

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellbridge-labs/sellbridge-cli/internal/adapters/driving/tui/messages"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// --- fakes ---

type fakeRegistry struct {
	marketplaces []domain.Marketplace
	apps         map[string]driven.OAuthApp
}

func (f *fakeRegistry) List() []domain.Marketplace { return f.marketplaces }

func (f *fakeRegistry) Get(id string) (*domain.Marketplace, error) {
	for i := range f.marketplaces {
		if f.marketplaces[i].ID == id {
			return &f.marketplaces[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistry) OAuthApp(id string) (driven.OAuthApp, error) {
	app, ok := f.apps[id]
	if !ok {
		return driven.OAuthApp{}, domain.ErrOAuthNotConfigured
	}
	return app, nil
}

type fakeStores struct {
	connected []domain.StoreConnection
	err       error
}

func (f *fakeStores) Connect(_ context.Context, conn domain.StoreConnection) (*domain.StoreConnection, error) {
	if f.err != nil {
		return nil, f.err
	}
	conn.ID = "conn-new"
	f.connected = append(f.connected, conn)
	return &conn, nil
}

func (f *fakeStores) Get(context.Context, string) (*domain.StoreConnection, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeStores) List(context.Context, string) ([]domain.StoreConnection, error) {
	return nil, nil
}

func (f *fakeStores) Rename(context.Context, string, string) error { return nil }
func (f *fakeStores) Remove(context.Context, string) error         { return nil }

type fakeSession struct {
	token       domain.CorrelationToken
	authURL     string
	callbackURL string
	outcome     domain.Outcome
	cancelled   bool
}

func (s *fakeSession) Token() domain.CorrelationToken      { return s.token }
func (s *fakeSession) AuthURL() string                     { return s.authURL }
func (s *fakeSession) CallbackURL() string                 { return s.callbackURL }
func (s *fakeSession) Wait(context.Context) domain.Outcome { return s.outcome }
func (s *fakeSession) Cancel()                             { s.cancelled = true }

type fakeBroker struct {
	session *fakeSession
	err     error
	lastReq driving.HandshakeRequest
}

func (f *fakeBroker) Start(_ context.Context, req driving.HandshakeRequest) (driving.Handshake, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakeExchanger struct {
	creds           *domain.OAuthCredentials
	err             error
	lastCode        string
	lastCallbackURL string
	lastParams      domain.HandshakeParams
}

func (f *fakeExchanger) Exchange(_ context.Context, _ *domain.Marketplace, _ driven.OAuthApp, code, callbackURL string, params domain.HandshakeParams) (*domain.OAuthCredentials, error) {
	f.lastCode = code
	f.lastCallbackURL = callbackURL
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return f.creds, nil
}

// --- fixtures ---

func testMarketplaces() []domain.Marketplace {
	return []domain.Marketplace{
		{
			ID:             "shopify",
			Name:           "Shopify",
			Description:    "Link a Shopify store",
			Platform:       domain.PlatformShopify,
			AuthCapability: domain.AuthCapOAuth,
			ConfigKeys: []domain.ConfigKey{
				{Key: "display_name", Label: "Store Name"},
				{Key: "shop_domain", Label: "Shop Domain", Required: true},
			},
			OAuth: &domain.OAuthEndpoints{
				AuthURL:  "https://{shop}/admin/oauth/authorize",
				TokenURL: "https://{shop}/admin/oauth/access_token",
			},
		},
		{
			ID:             "woocommerce",
			Name:           "WooCommerce",
			Description:    "Link a WooCommerce site",
			Platform:       domain.PlatformWooCommerce,
			AuthCapability: domain.AuthCapAPIKey,
			ConfigKeys: []domain.ConfigKey{
				{Key: "display_name", Label: "Store Name"},
				{Key: "site_url", Label: "Site URL", Required: true},
				{Key: "consumer_key", Label: "Consumer Key", Required: true},
				{Key: "consumer_secret", Label: "Consumer Secret", Required: true, Secret: true},
			},
		},
	}
}

type fixture struct {
	view      *View
	registry  *fakeRegistry
	stores    *fakeStores
	broker    *fakeBroker
	exchanger *fakeExchanger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	registry := &fakeRegistry{
		marketplaces: testMarketplaces(),
		apps: map[string]driven.OAuthApp{
			"shopify": {ClientID: "cid", ClientSecret: "secret"},
		},
	}
	stores := &fakeStores{}
	broker := &fakeBroker{
		session: &fakeSession{
			token:       domain.CorrelationToken("user-1.123.abc"),
			authURL:     "https://acme.myshopify.com/admin/oauth/authorize?state=x",
			callbackURL: "http://localhost:8080/callback",
			outcome:     domain.SuccessOutcome(domain.HandoffPayload{AuthorizationCode: "code-1", ShopDomain: "acme.myshopify.com"}),
		},
	}
	exchanger := &fakeExchanger{creds: &domain.OAuthCredentials{AccessToken: "tok-1", TokenType: "Bearer"}}

	v := NewView(nil, registry, stores, broker, exchanger, "user-1")
	v.SetDimensions(100, 40)
	v, _ = v.Update(v.Init()())

	return &fixture{view: v, registry: registry, stores: stores, broker: broker, exchanger: exchanger}
}

// pump runs a command and feeds the resulting message back into the view
// until there is nothing left to process.
func (f *fixture) pump(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 10, "command loop did not settle")
		msg := cmd()
		if msg == nil {
			return
		}
		f.view, cmd = f.view.Update(msg)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// selectMarketplace drives the wizard to the config step for one entry.
func (f *fixture) selectMarketplace(t *testing.T, index int) {
	t.Helper()
	for i := 0; i < index; i++ {
		f.view, _ = f.view.Update(key("j"))
	}
	var cmd tea.Cmd
	f.view, cmd = f.view.Update(key("enter"))
	_ = cmd
	require.Equal(t, StepEnterConfig, f.view.Step())
}

// fillConfig types values into the config fields in order, pressing
// enter after each one. The final enter submits.
func (f *fixture) fillConfig(t *testing.T, values ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, val := range values {
		f.view.configFields[f.view.focusIndex].SetValue(val)
		f.view, cmd = f.view.Update(key("enter"))
	}
	return cmd
}

// --- tests ---

func TestView_Init_LoadsCatalogue(t *testing.T) {
	f := newFixture(t)

	view := f.view.View()
	assert.Contains(t, view, "Shopify")
	assert.Contains(t, view, "WooCommerce")
	assert.Equal(t, StepSelectMarketplace, f.view.Step())
}

func TestView_Select_BuildsConfigFields(t *testing.T) {
	f := newFixture(t)

	f.selectMarketplace(t, 0)

	require.Len(t, f.view.configFields, 2)
	assert.Equal(t, "Store Name", f.view.configFields[0].Label())
	assert.Equal(t, "Shop Domain", f.view.configFields[1].Label())
	assert.True(t, f.view.configFields[0].Focused())
}

func TestView_Config_RequiredValidation(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "")

	assert.Nil(t, cmd)
	assert.Equal(t, StepEnterConfig, f.view.Step())
	assert.Contains(t, f.view.Notice(), "Shop Domain is required")
}

func TestView_Config_EscGoesBackToSelect(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)

	f.view, _ = f.view.Update(key("esc"))

	assert.Equal(t, StepSelectMarketplace, f.view.Step())
}

func TestView_OAuthFlow_Success(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)
	f.pump(t, cmd)

	assert.Equal(t, StepComplete, f.view.Step())
	require.NotNil(t, f.view.Connection())
	assert.Equal(t, "conn-new", f.view.Connection().ID)

	// The broker saw the entered parameters.
	assert.Equal(t, "user-1", f.broker.lastReq.OwnerUserID)
	assert.Equal(t, "acme.myshopify.com", f.broker.lastReq.Params.ShopDomain)

	// The exchange presented the handshake's redirect URI and shop domain.
	assert.Equal(t, "code-1", f.exchanger.lastCode)
	assert.Equal(t, "http://localhost:8080/callback", f.exchanger.lastCallbackURL)
	assert.Equal(t, "acme.myshopify.com", f.exchanger.lastParams.ShopDomain)

	// The persisted connection carries the OAuth tokens.
	require.Len(t, f.stores.connected, 1)
	conn := f.stores.connected[0]
	assert.Equal(t, domain.PlatformShopify, conn.Platform)
	assert.Equal(t, "My Shop", conn.DisplayName)
	require.NotNil(t, conn.Credentials.OAuth)
	assert.Equal(t, "tok-1", conn.Credentials.OAuth.AccessToken)
}

func TestView_OAuthFlow_ShowsAuthURLWhileWaiting(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)

	// Deliver only the started message; the wait command stays pending.
	msg := cmd()
	started, ok := msg.(handshakeStarted)
	require.True(t, ok)
	f.view, _ = f.view.Update(started)

	assert.Equal(t, StepAuthorising, f.view.Step())
	assert.Contains(t, f.view.View(), "acme.myshopify.com/admin/oauth/authorize")
}

func TestView_OAuthFlow_CancelledReturnsToConfig(t *testing.T) {
	f := newFixture(t)
	f.broker.session.outcome = domain.CancelledOutcome()
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)
	f.pump(t, cmd)

	assert.Equal(t, StepEnterConfig, f.view.Step())
	assert.Equal(t, domain.CancelledOutcome().UserMessage(), f.view.Notice())
	assert.Empty(t, f.stores.connected)
}

func TestView_OAuthFlow_EscCancelsSession(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)
	started, ok := cmd().(handshakeStarted)
	require.True(t, ok)
	f.view, _ = f.view.Update(started)

	f.view, _ = f.view.Update(key("esc"))

	assert.True(t, f.broker.session.cancelled)
}

func TestView_OAuthFlow_BrokerPreconditionFailure(t *testing.T) {
	f := newFixture(t)
	f.broker.err = fmt.Errorf("linking already in progress: %w", domain.ErrHandshakeInFlight)
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)
	f.pump(t, cmd)

	assert.Equal(t, StepEnterConfig, f.view.Step())
	assert.Contains(t, f.view.Notice(), "already in progress")
}

func TestView_OAuthFlow_ExchangeFailureReturnsToConfig(t *testing.T) {
	f := newFixture(t)
	f.exchanger.err = fmt.Errorf("exchanging code with shopify: invalid_grant")
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)
	f.pump(t, cmd)

	assert.Equal(t, StepEnterConfig, f.view.Step())
	assert.Contains(t, f.view.Notice(), "invalid_grant")
	assert.Empty(t, f.stores.connected)
}

func TestView_APIKeyFlow_SkipsHandshake(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 1) // WooCommerce

	cmd := f.fillConfig(t, "My Woo", "https://shop.acme.dev", "ck_123", "cs_456")
	require.NotNil(t, cmd)
	f.pump(t, cmd)

	assert.Equal(t, StepComplete, f.view.Step())
	assert.Empty(t, f.broker.lastReq.OwnerUserID, "broker must not be invoked for API-key marketplaces")

	require.Len(t, f.stores.connected, 1)
	conn := f.stores.connected[0]
	assert.Equal(t, domain.PlatformWooCommerce, conn.Platform)
	assert.Equal(t, "https://shop.acme.dev", conn.Domain)
	require.NotNil(t, conn.Credentials.APIKey)
	assert.Equal(t, "ck_123", conn.Credentials.APIKey.Key)
	assert.Equal(t, "cs_456", conn.Credentials.APIKey.Secret)
}

func TestView_Complete_EnterReturnsToStores(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)
	f.pump(t, f.fillConfig(t, "My Shop", "acme.myshopify.com"))
	require.Equal(t, StepComplete, f.view.Step())

	_, cmd := f.view.Update(key("enter"))
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewStores, changed.View)
}

func TestView_Reset(t *testing.T) {
	f := newFixture(t)
	f.selectMarketplace(t, 0)

	cmd := f.fillConfig(t, "My Shop", "acme.myshopify.com")
	require.NotNil(t, cmd)
	started, ok := cmd().(handshakeStarted)
	require.True(t, ok)
	f.view, _ = f.view.Update(started)

	f.view.Reset()

	assert.Equal(t, StepSelectMarketplace, f.view.Step())
	assert.True(t, f.broker.session.cancelled)
	assert.Nil(t, f.view.Connection())
	assert.Empty(t, f.view.Notice())
}

func TestView_Select_EscReturnsToMenu(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.view.Update(key("esc"))
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}
