package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// fakeConnectionStore is a map-backed StoreConnectionStore.
type fakeConnectionStore struct {
	mu    sync.Mutex
	byID  map[string]domain.StoreConnection
	calls int
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{byID: make(map[string]domain.StoreConnection)}
}

func (f *fakeConnectionStore) Upsert(_ context.Context, conn domain.StoreConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[conn.ID] = conn
	f.calls++
	return nil
}

func (f *fakeConnectionStore) Get(_ context.Context, id string) (*domain.StoreConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conn, nil
}

func (f *fakeConnectionStore) GetByNaturalKey(_ context.Context, owner string, platform domain.Platform, storeDomain string) (*domain.StoreConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conn := range f.byID {
		if conn.OwnerUserID == owner && conn.Platform == platform && conn.Domain == storeDomain {
			return &conn, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConnectionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeConnectionStore) List(_ context.Context, owner string) ([]domain.StoreConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StoreConnection
	for _, conn := range f.byID {
		if conn.OwnerUserID == owner {
			result = append(result, conn)
		}
	}
	return result, nil
}

func oauthConnection(displayName, storeDomain string) domain.StoreConnection {
	return domain.StoreConnection{
		OwnerUserID: "user-1",
		Platform:    domain.PlatformShopify,
		Domain:      storeDomain,
		DisplayName: displayName,
		Credentials: domain.Credentials{
			OAuth: &domain.OAuthCredentials{AccessToken: "tok", TokenType: "Bearer"},
		},
	}
}

func TestStoreService_Connect_NewStore(t *testing.T) {
	store := newFakeConnectionStore()
	svc := NewStoreService(store)

	saved, err := svc.Connect(context.Background(), oauthConnection("Acme", "acme.myshopify.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
}

// A retried handshake for the same store must update the existing row,
// never create a second one.
func TestStoreService_Connect_UpsertsOnNaturalKey(t *testing.T) {
	store := newFakeConnectionStore()
	svc := NewStoreService(store)
	ctx := context.Background()

	first, err := svc.Connect(ctx, oauthConnection("Acme", "acme.myshopify.com"))
	require.NoError(t, err)

	retried := oauthConnection("Acme Renamed", "acme.myshopify.com")
	retried.Credentials.OAuth.AccessToken = "tok-2"
	second, err := svc.Connect(ctx, retried)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same natural key must reuse the row")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	all, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "tok-2", all[0].Credentials.OAuth.AccessToken)
	assert.Equal(t, "Acme Renamed", all[0].DisplayName)
}

// Domain normalization feeds the natural key: scheme and case variants of
// the same store collapse into one connection.
func TestStoreService_Connect_NormalizesDomain(t *testing.T) {
	store := newFakeConnectionStore()
	svc := NewStoreService(store)
	ctx := context.Background()

	first, err := svc.Connect(ctx, oauthConnection("Acme", "HTTPS://Acme.myshopify.com/"))
	require.NoError(t, err)
	assert.Equal(t, "acme.myshopify.com", first.Domain)

	second, err := svc.Connect(ctx, oauthConnection("Acme", "acme.myshopify.com"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStoreService_Connect_KeepsDisplayNameOnRetry(t *testing.T) {
	store := newFakeConnectionStore()
	svc := NewStoreService(store)
	ctx := context.Background()

	_, err := svc.Connect(ctx, oauthConnection("My Shop", "acme.myshopify.com"))
	require.NoError(t, err)

	retried := oauthConnection("", "acme.myshopify.com")
	saved, err := svc.Connect(ctx, retried)
	require.NoError(t, err)
	assert.Equal(t, "My Shop", saved.DisplayName)
}

func TestStoreService_Connect_RejectsInvalid(t *testing.T) {
	svc := NewStoreService(newFakeConnectionStore())
	ctx := context.Background()

	tests := []struct {
		name string
		conn domain.StoreConnection
	}{
		{name: "missing owner", conn: domain.StoreConnection{Platform: domain.PlatformEtsy, Credentials: domain.Credentials{APIKey: &domain.APIKeyCredentials{Key: "k"}}}},
		{name: "missing platform", conn: domain.StoreConnection{OwnerUserID: "user-1", Credentials: domain.Credentials{APIKey: &domain.APIKeyCredentials{Key: "k"}}}},
		{name: "no credential", conn: domain.StoreConnection{OwnerUserID: "user-1", Platform: domain.PlatformEtsy}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Connect(ctx, tt.conn)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStoreService_Rename(t *testing.T) {
	store := newFakeConnectionStore()
	svc := NewStoreService(store)
	ctx := context.Background()

	saved, err := svc.Connect(ctx, oauthConnection("Old Name", "acme.myshopify.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Rename(ctx, saved.ID, "New Name"))

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.DisplayName)

	assert.ErrorIs(t, svc.Rename(ctx, "missing", "x"), domain.ErrNotFound)
}

func TestStoreService_Remove(t *testing.T) {
	store := newFakeConnectionStore()
	svc := NewStoreService(store)
	ctx := context.Background()

	saved, err := svc.Connect(ctx, oauthConnection("Acme", "acme.myshopify.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, saved.ID))
	_, err = svc.Get(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
