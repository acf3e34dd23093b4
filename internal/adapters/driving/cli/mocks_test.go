package cli

import (
	"context"
	"fmt"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// mockRegistry implements driving.MarketplaceRegistry for testing.
type mockRegistry struct {
	marketplaces []domain.Marketplace
	apps         map[string]driven.OAuthApp
}

func (m *mockRegistry) List() []domain.Marketplace {
	return m.marketplaces
}

func (m *mockRegistry) Get(id string) (*domain.Marketplace, error) {
	for i := range m.marketplaces {
		if m.marketplaces[i].ID == id {
			return &m.marketplaces[i], nil
		}
	}
	return nil, fmt.Errorf("unknown marketplace %q: %w", id, domain.ErrNotFound)
}

func (m *mockRegistry) OAuthApp(id string) (driven.OAuthApp, error) {
	if app, ok := m.apps[id]; ok {
		return app, nil
	}
	return driven.OAuthApp{}, fmt.Errorf("marketplace %s: %w", id, domain.ErrOAuthNotConfigured)
}

// mockStoreService implements driving.StoreService for testing.
type mockStoreService struct {
	connections []domain.StoreConnection
	connected   []domain.StoreConnection
	removed     []string
	renamed     map[string]string
	listErr     error
	connectErr  error
}

func (m *mockStoreService) Connect(_ context.Context, conn domain.StoreConnection) (*domain.StoreConnection, error) {
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	conn.ID = "conn-new"
	m.connected = append(m.connected, conn)
	return &conn, nil
}

func (m *mockStoreService) Get(_ context.Context, id string) (*domain.StoreConnection, error) {
	for i := range m.connections {
		if m.connections[i].ID == id {
			return &m.connections[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStoreService) List(_ context.Context, _ string) ([]domain.StoreConnection, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.connections, nil
}

func (m *mockStoreService) Rename(_ context.Context, id, displayName string) error {
	if m.renamed == nil {
		m.renamed = make(map[string]string)
	}
	m.renamed[id] = displayName
	return nil
}

func (m *mockStoreService) Remove(_ context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

// mockSession implements driving.Handshake for testing.
type mockSession struct {
	token       domain.CorrelationToken
	authURL     string
	callbackURL string
	outcome     domain.Outcome
	cancelled   bool
}

func (m *mockSession) Token() domain.CorrelationToken { return m.token }
func (m *mockSession) AuthURL() string                { return m.authURL }
func (m *mockSession) CallbackURL() string            { return m.callbackURL }

func (m *mockSession) Wait(_ context.Context) domain.Outcome { return m.outcome }

func (m *mockSession) Cancel() { m.cancelled = true }

// mockBroker implements driving.HandshakeBroker for testing.
type mockBroker struct {
	session  *mockSession
	startErr error
	lastReq  driving.HandshakeRequest
}

func (m *mockBroker) Start(_ context.Context, req driving.HandshakeRequest) (driving.Handshake, error) {
	m.lastReq = req
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.session, nil
}

// mockExchanger implements driven.TokenExchanger for testing.
type mockExchanger struct {
	creds       *domain.OAuthCredentials
	exchangeErr error
	lastCode    string
	lastParams  domain.HandshakeParams
}

func (m *mockExchanger) Exchange(_ context.Context, _ *domain.Marketplace, _ driven.OAuthApp, code, _ string, params domain.HandshakeParams) (*domain.OAuthCredentials, error) {
	m.lastCode = code
	m.lastParams = params
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return m.creds, nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if val, ok := m.data[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if val, ok := m.data[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if val, ok := m.data[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if val, ok := m.data[key]; ok {
		if s, ok := val.([]string); ok {
			return s
		}
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/config.toml"
}

// testCatalogue returns a small marketplace catalogue covering both
// linking methods.
func testCatalogue() []domain.Marketplace {
	return []domain.Marketplace{
		{
			ID:             "shopify",
			Name:           "Shopify",
			Description:    "Link a Shopify store",
			Platform:       domain.PlatformShopify,
			AuthCapability: domain.AuthCapOAuth,
			ConfigKeys: []domain.ConfigKey{
				{Key: "display_name", Label: "Store name"},
				{Key: "shop_domain", Label: "Shop domain", Required: true},
			},
			OAuth: &domain.OAuthEndpoints{
				AuthURL:  "https://{shop}/admin/oauth/authorize",
				TokenURL: "https://{shop}/admin/oauth/access_token",
				Scopes:   []string{"read_products"},
			},
		},
		{
			ID:             "woocommerce",
			Name:           "WooCommerce",
			Description:    "Link a WooCommerce store",
			Platform:       domain.PlatformWooCommerce,
			AuthCapability: domain.AuthCapAPIKey,
			ConfigKeys: []domain.ConfigKey{
				{Key: "display_name", Label: "Store name"},
				{Key: "site_url", Label: "Site URL", Required: true},
				{Key: "consumer_key", Label: "Consumer key", Required: true, Secret: true},
				{Key: "consumer_secret", Label: "Consumer secret", Required: true, Secret: true},
			},
		},
	}
}

// setupCLITest injects mocks into the package-level services and returns
// them along with a restore func.
type cliMocks struct {
	registry  *mockRegistry
	stores    *mockStoreService
	broker    *mockBroker
	exchanger *mockExchanger
	config    *mockConfigStore
}

func setupCLITest() (*cliMocks, func()) {
	mocks := &cliMocks{
		registry:  &mockRegistry{marketplaces: testCatalogue(), apps: map[string]driven.OAuthApp{}},
		stores:    &mockStoreService{},
		broker:    &mockBroker{},
		exchanger: &mockExchanger{},
		config:    newMockConfigStore(),
	}

	oldRegistry := marketplaceRegistry
	oldStores := storeService
	oldBroker := handshakeBroker
	oldExchanger := tokenExchanger
	oldConfig := configStore
	oldOwner := ownerUserID

	SetServices(&Services{
		Registry:    mocks.registry,
		Stores:      mocks.stores,
		Broker:      mocks.broker,
		Exchanger:   mocks.exchanger,
		Config:      mocks.config,
		OwnerUserID: "user-123",
	})

	return mocks, func() {
		marketplaceRegistry = oldRegistry
		storeService = oldStores
		handshakeBroker = oldBroker
		tokenExchanger = oldExchanger
		configStore = oldConfig
		ownerUserID = oldOwner
	}
}
