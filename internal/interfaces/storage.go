// Package interfaces defines service contracts for copyforge
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/copyforge/internal/models"
)

// Sentinel errors shared by all storage backends. Callers match with
// errors.Is and choose the HTTP status themselves.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrClientNotFound = errors.New("oauth client not found")
	ErrCodeNotFound   = errors.New("authorization code not found")
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	UserStore() UserStore
	OAuthStore() OAuthStore
	TextStore() TextStore

	Close() error
}

// UserStore manages user accounts. Writes happen only during startup
// seeding; request-time access is read-only.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]string, error)
}

// OAuthStore manages registered clients and authorization codes.
type OAuthStore interface {
	// Clients
	GetClient(ctx context.Context, clientID string) (*models.OAuthClient, error)
	SaveClient(ctx context.Context, client *models.OAuthClient) error

	// Authorization codes. RedeemCode atomically removes the code on
	// lookup: of any number of concurrent redemptions for one code,
	// exactly one receives the record and the rest get ErrCodeNotFound.
	SaveCode(ctx context.Context, code *models.AuthCode) error
	RedeemCode(ctx context.Context, code string) (*models.AuthCode, error)
	PurgeExpiredCodes(ctx context.Context) (int, error)
}

// TextStore persists generated and user-edited marketing texts per user.
type TextStore interface {
	SaveIntros(ctx context.Context, username, companyIntro, brandIntro string) error
	SaveAdditional(ctx context.Context, username, purpose, name, content string) error
	GetTexts(ctx context.Context, username string) (*models.UserTexts, error)
}
