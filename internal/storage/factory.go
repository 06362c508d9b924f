package storage

import (
	"fmt"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/storage/memory"
	surrealstore "github.com/bobmcallan/copyforge/internal/storage/surrealdb"
	"github.com/bobmcallan/copyforge/internal/storage/textfs"
)

// Manager composes the credential backend with the text file store.
// Generated texts always live on disk regardless of backend; only
// users, clients and authorization codes move between backends.
type Manager struct {
	users  interfaces.UserStore
	oauth  interfaces.OAuthStore
	texts  interfaces.TextStore
	closer func() error
}

// NewManager creates a StorageManager for the configured backend.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	texts, err := textfs.NewStore(config.Storage.TextsPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text store: %w", err)
	}

	switch config.Storage.Backend {
	case "", "memory":
		mem := memory.NewStore()
		logger.Info().Str("backend", "memory").Msg("Storage manager initialized")
		return &Manager{
			users:  mem,
			oauth:  mem,
			texts:  texts,
			closer: func() error { return nil },
		}, nil
	case "surrealdb":
		store, err := surrealstore.NewStore(logger, config.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize surrealdb backend: %w", err)
		}
		logger.Info().
			Str("backend", "surrealdb").
			Str("address", config.Storage.Address).
			Msg("Storage manager initialized")
		return &Manager{
			users:  store.UserStore(),
			oauth:  store.OAuthStore(),
			texts:  texts,
			closer: store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", config.Storage.Backend)
	}
}

func (m *Manager) UserStore() interfaces.UserStore {
	return m.users
}

func (m *Manager) OAuthStore() interfaces.OAuthStore {
	return m.oauth
}

func (m *Manager) TextStore() interfaces.TextStore {
	return m.texts
}

func (m *Manager) Close() error {
	return m.closer()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
