// Package memory implements the credential and code stores as in-process
// tables. This is the default backend: the user and client tables are static
// configuration, and codes are short-lived, so nothing needs to survive a
// restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

// Store implements interfaces.UserStore and interfaces.OAuthStore.
// A single mutex guards all three tables; the hot path is a map lookup.
type Store struct {
	mu      sync.Mutex
	users   map[string]*models.User
	clients map[string]*models.OAuthClient
	codes   map[string]*models.AuthCode
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		clients: make(map[string]*models.OAuthClient),
		codes:   make(map[string]*models.AuthCode),
	}
}

// --- Users ---

func (s *Store) GetUser(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, interfaces.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Store) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// --- Clients ---

func (s *Store) GetClient(_ context.Context, clientID string) (*models.OAuthClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[clientID]
	if !ok {
		return nil, interfaces.ErrClientNotFound
	}
	copied := *client
	copied.RedirectURIs = append([]string(nil), client.RedirectURIs...)
	return &copied, nil
}

func (s *Store) SaveClient(_ context.Context, client *models.OAuthClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *client
	copied.RedirectURIs = append([]string(nil), client.RedirectURIs...)
	s.clients[client.ClientID] = &copied
	return nil
}

// --- Authorization codes ---

func (s *Store) SaveCode(_ context.Context, code *models.AuthCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *code
	s.codes[code.Code] = &copied
	return nil
}

// RedeemCode removes and returns the code under a single lock acquisition,
// which is what makes the single-use guarantee hold under concurrent
// redemption: the second caller finds the map entry gone.
func (s *Store) RedeemCode(_ context.Context, code string) (*models.AuthCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.codes[code]
	if !ok {
		return nil, interfaces.ErrCodeNotFound
	}
	delete(s.codes, code)
	return record, nil
}

func (s *Store) PurgeExpiredCodes(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	purged := 0
	for key, record := range s.codes {
		if record.Expired(now) {
			delete(s.codes, key)
			purged++
		}
	}
	return purged, nil
}

var (
	_ interfaces.UserStore  = (*Store)(nil)
	_ interfaces.OAuthStore = (*Store)(nil)
)
