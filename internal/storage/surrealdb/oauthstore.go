package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

// oauthClientRow is the DB-level representation of an OAuth client.
type oauthClientRow struct {
	ClientID         string    `json:"client_id"`
	ClientSecretHash string    `json:"client_secret_hash"`
	ClientName       string    `json:"client_name"`
	RedirectURIs     []string  `json:"redirect_uris"`
	CreatedAt        time.Time `json:"created_at"`
}

// authCodeRow is the DB-level representation of an authorization code.
type authCodeRow struct {
	Code        string    `json:"code"`
	ClientID    string    `json:"client_id"`
	Subject     string    `json:"subject"`
	RedirectURI string    `json:"redirect_uri"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// OAuthStore implements interfaces.OAuthStore using SurrealDB.
type OAuthStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewOAuthStore creates a new OAuthStore.
func NewOAuthStore(db *surrealdb.DB, logger *common.Logger) *OAuthStore {
	return &OAuthStore{db: db, logger: logger}
}

// --- Clients ---

func (s *OAuthStore) SaveClient(ctx context.Context, client *models.OAuthClient) error {
	sql := `UPSERT $rid SET
		client_id = $client_id, client_secret_hash = $client_secret_hash,
		client_name = $client_name, redirect_uris = $redirect_uris,
		created_at = $created_at`
	vars := map[string]any{
		"rid":                surrealmodels.NewRecordID("oauth_client", client.ClientID),
		"client_id":          client.ClientID,
		"client_secret_hash": client.ClientSecretHash,
		"client_name":        client.ClientName,
		"redirect_uris":      client.RedirectURIs,
		"created_at":         client.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save oauth client: %w", err)
	}
	return nil
}

func (s *OAuthStore) GetClient(ctx context.Context, clientID string) (*models.OAuthClient, error) {
	sql := "SELECT client_id, client_secret_hash, client_name, redirect_uris, created_at FROM $rid"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("oauth_client", clientID),
	}
	results, err := surrealdb.Query[[]oauthClientRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get oauth client: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrClientNotFound
	}
	row := (*results)[0].Result[0]
	return &models.OAuthClient{
		ClientID:         row.ClientID,
		ClientSecretHash: row.ClientSecretHash,
		ClientName:       row.ClientName,
		RedirectURIs:     row.RedirectURIs,
		CreatedAt:        row.CreatedAt,
	}, nil
}

// --- Authorization codes ---

func (s *OAuthStore) SaveCode(ctx context.Context, code *models.AuthCode) error {
	sql := `UPSERT $rid SET
		code = $code, client_id = $client_id, subject = $subject,
		redirect_uri = $redirect_uri, expires_at = $expires_at,
		created_at = $created_at`
	vars := map[string]any{
		"rid":          surrealmodels.NewRecordID("auth_code", code.Code),
		"code":         code.Code,
		"client_id":    code.ClientID,
		"subject":      code.Subject,
		"redirect_uri": code.RedirectURI,
		"expires_at":   code.ExpiresAt,
		"created_at":   code.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save auth code: %w", err)
	}
	return nil
}

// RedeemCode deletes the code record and returns its prior state in one
// statement. The single DELETE is what makes redemption atomic: a concurrent
// redeemer's DELETE finds no record and reports ErrCodeNotFound.
func (s *OAuthStore) RedeemCode(ctx context.Context, code string) (*models.AuthCode, error) {
	sql := "DELETE $rid RETURN BEFORE"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("auth_code", code),
	}
	results, err := surrealdb.Query[[]authCodeRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to redeem auth code: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrCodeNotFound
	}
	row := (*results)[0].Result[0]
	return &models.AuthCode{
		Code:        row.Code,
		ClientID:    row.ClientID,
		Subject:     row.Subject,
		RedirectURI: row.RedirectURI,
		ExpiresAt:   row.ExpiresAt,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (s *OAuthStore) PurgeExpiredCodes(ctx context.Context) (int, error) {
	sql := "DELETE auth_code WHERE expires_at < time::now() RETURN BEFORE"
	results, err := surrealdb.Query[[]authCodeRow](ctx, s.db, sql, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired codes: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	return len((*results)[0].Result), nil
}

var _ interfaces.OAuthStore = (*OAuthStore)(nil)
