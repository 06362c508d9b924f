package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

// Ledger redemption failures. The token endpoint collapses all of them to
// invalid_grant so a caller cannot probe which check failed.
var (
	ErrCodeUnknown      = errors.New("unknown authorization code")
	ErrCodeExpired      = errors.New("authorization code expired")
	ErrRedirectMismatch = errors.New("redirect_uri does not match code")
	ErrClientMismatch   = errors.New("client_id does not match code")
)

// CodeLedger issues and redeems single-use authorization codes. The
// single-use guarantee lives in the store contract: RedeemCode removes the
// record atomically, so concurrent redemptions of one code yield at most one
// success regardless of backend.
type CodeLedger struct {
	store interfaces.OAuthStore
	ttl   time.Duration
}

// NewCodeLedger creates a ledger over the given store with the given code TTL.
func NewCodeLedger(store interfaces.OAuthStore, ttl time.Duration) *CodeLedger {
	return &CodeLedger{store: store, ttl: ttl}
}

// Issue generates a fresh random code bound to (subject, clientID,
// redirectURI) and records it with the ledger's TTL. Each issuance also
// sweeps expired codes out of the store, so codes from abandoned logins
// do not accumulate; redemption already removes anything a caller
// actually presents. The sweep is best-effort and never blocks issuance.
func (l *CodeLedger) Issue(ctx context.Context, subject, clientID, redirectURI string) (string, error) {
	l.store.PurgeExpiredCodes(ctx)

	codeBytes := make([]byte, 32)
	if _, err := rand.Read(codeBytes); err != nil {
		return "", fmt.Errorf("failed to generate authorization code: %w", err)
	}
	code := hex.EncodeToString(codeBytes)

	now := time.Now()
	record := &models.AuthCode{
		Code:        code,
		ClientID:    clientID,
		Subject:     subject,
		RedirectURI: redirectURI,
		ExpiresAt:   now.Add(l.ttl),
		CreatedAt:   now,
	}
	if err := l.store.SaveCode(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save authorization code: %w", err)
	}
	return code, nil
}

// Redeem consumes a code and returns its subject. The code is removed from
// the store before any check runs, so a failed redemption still burns it.
// Expired codes report ErrCodeUnknown-equivalent semantics via ErrCodeExpired
// and are gone either way.
func (l *CodeLedger) Redeem(ctx context.Context, code, clientID, redirectURI string) (string, error) {
	record, err := l.store.RedeemCode(ctx, code)
	if err != nil {
		if errors.Is(err, interfaces.ErrCodeNotFound) {
			return "", ErrCodeUnknown
		}
		return "", fmt.Errorf("failed to redeem authorization code: %w", err)
	}
	if record.Expired(time.Now()) {
		return "", ErrCodeExpired
	}
	if record.ClientID != clientID {
		return "", ErrClientMismatch
	}
	if record.RedirectURI != redirectURI {
		return "", ErrRedirectMismatch
	}
	return record.Subject, nil
}
