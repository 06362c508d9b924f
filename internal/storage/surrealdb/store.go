// Package surrealdb implements the credential and code stores over
// SurrealDB for deployments that want user, client, and code records to
// survive a restart.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/copyforge/internal/common"
)

// Store holds the shared SurrealDB connection behind the typed stores.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger

	userStore  *UserStore
	oauthStore *OAuthStore
}

// NewStore connects to SurrealDB, ensures the tables exist, and returns the
// typed store accessors.
func NewStore(logger *common.Logger, cfg common.StorageConfig) (*Store, error) {
	ctx := context.Background()

	db, err := surrealdb.New(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": cfg.Username,
		"pass": cfg.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front (SurrealDB v3 errors on querying non-existent tables)
	for _, table := range []string{"user", "oauth_client", "auth_code"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	s := &Store{db: db, logger: logger}
	s.userStore = NewUserStore(db, logger)
	s.oauthStore = NewOAuthStore(db, logger)

	logger.Info().
		Str("address", cfg.Address).
		Str("namespace", cfg.Namespace).
		Str("database", cfg.Database).
		Msg("SurrealDB storage initialized")

	return s, nil
}

// UserStore returns the user store.
func (s *Store) UserStore() *UserStore { return s.userStore }

// OAuthStore returns the client/code store.
func (s *Store) OAuthStore() *OAuthStore { return s.oauthStore }

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// isNotFoundError reports whether a SurrealDB error indicates a missing
// record rather than a transport or query failure.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
