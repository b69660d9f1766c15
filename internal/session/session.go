// Package session persists the authenticated state of each browser session:
// the backend tokens, the user, and the cached chef profile. Records survive
// gateway restarts via Redis, with an in-memory fallback when Redis is down.
package session

import (
	"context"
	"time"

	"idish/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Record is the unit of storage: one authenticated (or anonymous) browser
// session. Login overwrites the whole record unconditionally; logout deletes
// it, cached chef profile included.
type Record struct {
	ID          string              `json:"id"`
	User        models.User         `json:"user"`
	Session     models.Session      `json:"session"`
	ChefProfile *models.ChefProfile `json:"chef_profile,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// IsAuthenticated is a pure token-presence check. Expiry is never inspected
// here: an expired token stays "authenticated" until the backend rejects it.
func (r *Record) IsAuthenticated() bool {
	return r != nil && r.Session.AccessToken != ""
}

// TokenExpiry parses the access token as an unverified JWT and returns its
// expiry claim. Display-only: the gateway has no signing key and makes no
// validity decision from this.
func (r *Record) TokenExpiry() (time.Time, bool) {
	if r == nil || r.Session.AccessToken == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(r.Session.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Repository is the storage backend for session records.
type Repository interface {
	Get(ctx context.Context, id string) (*Record, error)
	Set(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id string) error
}
