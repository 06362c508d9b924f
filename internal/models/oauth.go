package models

import "time"

// OAuthClient represents a registered OAuth client. Like users, clients are
// seeded from static configuration and read-only at request time.
type OAuthClient struct {
	ClientID         string    `json:"client_id"`
	ClientSecretHash string    `json:"-"`
	ClientName       string    `json:"client_name"`
	RedirectURIs     []string  `json:"redirect_uris"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthCode represents a single-use authorization code issued during the
// OAuth flow. A code binds exactly one (subject, client, redirect URI)
// triple and is removed from the store on first redemption.
type AuthCode struct {
	Code        string    `json:"code"`
	ClientID    string    `json:"client_id"`
	Subject     string    `json:"subject"`
	RedirectURI string    `json:"redirect_uri"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the code's TTL has elapsed at t.
func (c *AuthCode) Expired(t time.Time) bool {
	return t.After(c.ExpiresAt)
}
