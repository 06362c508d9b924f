package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

// Credential failures. Lookup misses and comparison misses are deliberately
// indistinguishable to the caller.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidClient      = errors.New("invalid client credentials")
	ErrUserDisabled       = errors.New("user account disabled")
)

// Authenticator verifies user and client credentials against the stores.
// All comparisons go through bcrypt, which is constant-time over the hash.
type Authenticator struct {
	users   interfaces.UserStore
	clients interfaces.OAuthStore
}

// NewAuthenticator creates an Authenticator over the given stores.
func NewAuthenticator(users interfaces.UserStore, clients interfaces.OAuthStore) *Authenticator {
	return &Authenticator{users: users, clients: clients}
}

// AuthenticateUser verifies a username/password pair and returns the user
// record. Unknown username, wrong password, and a disabled account all fail;
// only the disabled case is distinguishable (ErrUserDisabled).
func (a *Authenticator) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.users.GetUser(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := compareSecret(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}
	return user, nil
}

// AuthenticateClient verifies a client_id/client_secret pair.
func (a *Authenticator) AuthenticateClient(ctx context.Context, clientID, clientSecret string) error {
	client, err := a.clients.GetClient(ctx, clientID)
	if err != nil {
		return ErrInvalidClient
	}
	if err := compareSecret(client.ClientSecretHash, clientSecret); err != nil {
		return ErrInvalidClient
	}
	return nil
}

// compareSecret checks a plaintext secret against a bcrypt hash. bcrypt
// ignores input past 72 bytes, so longer secrets are truncated up front the
// same way they were at hashing time.
func compareSecret(hash, secret string) error {
	secretBytes := []byte(secret)
	if len(secretBytes) > 72 {
		secretBytes = secretBytes[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), secretBytes)
}

// HashSecret bcrypt-hashes a plaintext secret for seeding. Values that
// already look like bcrypt hashes pass through unchanged so config may carry
// pre-hashed credentials.
func HashSecret(secret string) (string, error) {
	if len(secret) >= 4 && secret[0] == '$' && secret[1] == '2' {
		return secret, nil
	}
	secretBytes := []byte(secret)
	if len(secretBytes) > 72 {
		secretBytes = secretBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(secretBytes, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}
