package surrealdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

func TestUserStore_SaveAndGet(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	user := &models.User{
		Username:     "johndoe",
		Email:        "johndoe@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.SaveUser(ctx, user))

	got, err := store.GetUser(ctx, "johndoe")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", got.Username)
	assert.Equal(t, "johndoe@example.com", got.Email)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
}

func TestUserStore_NotFound(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())

	_, err := store.GetUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, interfaces.ErrUserNotFound)
}

func TestUserStore_Upsert(t *testing.T) {
	db := testDB(t)
	store := NewUserStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, &models.User{Username: "johndoe", Email: "old@example.com"}))
	require.NoError(t, store.SaveUser(ctx, &models.User{Username: "johndoe", Email: "new@example.com"}))

	got, err := store.GetUser(ctx, "johndoe")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	names, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"johndoe"}, names)
}

func TestOAuthStore_SaveAndGetClient(t *testing.T) {
	db := testDB(t)
	store := NewOAuthStore(db, testLogger())
	ctx := context.Background()

	client := &models.OAuthClient{
		ClientID:         "client-1",
		ClientSecretHash: "$2a$10$hash",
		ClientName:       "Test Client",
		RedirectURIs:     []string{"https://client.example/callback", "https://client.example/alt"},
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.SaveClient(ctx, client))

	got, err := store.GetClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, client.ClientID, got.ClientID)
	assert.Equal(t, client.RedirectURIs, got.RedirectURIs)
}

func TestOAuthStore_ClientNotFound(t *testing.T) {
	db := testDB(t)
	store := NewOAuthStore(db, testLogger())

	_, err := store.GetClient(context.Background(), "no-such-client")
	assert.ErrorIs(t, err, interfaces.ErrClientNotFound)
}

func TestOAuthStore_RedeemCodeOnce(t *testing.T) {
	db := testDB(t)
	store := NewOAuthStore(db, testLogger())
	ctx := context.Background()

	code := &models.AuthCode{
		Code:        "abc123",
		ClientID:    "client-1",
		Subject:     "johndoe",
		RedirectURI: "https://client.example/callback",
		ExpiresAt:   time.Now().UTC().Add(5 * time.Minute),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.SaveCode(ctx, code))

	got, err := store.RedeemCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", got.Subject)
	assert.Equal(t, "client-1", got.ClientID)

	_, err = store.RedeemCode(ctx, "abc123")
	assert.ErrorIs(t, err, interfaces.ErrCodeNotFound)
}

func TestOAuthStore_RedeemUnknownCode(t *testing.T) {
	db := testDB(t)
	store := NewOAuthStore(db, testLogger())

	_, err := store.RedeemCode(context.Background(), "no-such-code")
	assert.ErrorIs(t, err, interfaces.ErrCodeNotFound)
}

func TestOAuthStore_ConcurrentRedeem(t *testing.T) {
	db := testDB(t)
	store := NewOAuthStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveCode(ctx, &models.AuthCode{
		Code:      "race-code",
		Subject:   "johndoe",
		ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
	}))

	const workers = 8
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.RedeemCode(ctx, "race-code"); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent redemption must succeed")
}

func TestOAuthStore_PurgeExpiredCodes(t *testing.T) {
	db := testDB(t)
	store := NewOAuthStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveCode(ctx, &models.AuthCode{
		Code:      "live",
		ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
	}))
	require.NoError(t, store.SaveCode(ctx, &models.AuthCode{
		Code:      "dead",
		ExpiresAt: time.Now().UTC().Add(-5 * time.Minute),
	}))

	purged, err := store.PurgeExpiredCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = store.RedeemCode(ctx, "live")
	assert.NoError(t, err)
}
