package session

import (
	"context"
	"fmt"
	"time"

	"idish/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager is the session store API used by the web layer. All state lives in
// the repository; the manager itself is stateless and safe for concurrent use.
type Manager struct {
	repo   Repository
	logger zerolog.Logger
}

func NewManager(repo Repository, logger *zerolog.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Login creates a fresh record for the user, overwriting nothing: every login
// gets a new session ID, so a prior session for the same browser is simply
// abandoned and expires.
func (m *Manager) Login(ctx context.Context, user models.User, sess models.Session) (*Record, error) {
	record := &Record{
		ID:        uuid.NewString(),
		User:      user,
		Session:   sess,
		CreatedAt: time.Now(),
	}
	if err := m.repo.Set(ctx, record); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	m.logger.Info().Str("user_id", user.ID).Str("role", user.Metadata.Role.String()).Msg("session created")
	return record, nil
}

// Logout deletes the record, including any cached chef profile.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.Info().Str("session_id", id).Msg("session cleared")
	return nil
}

// Current loads the record for a session ID. A missing or expired record
// returns (nil, nil).
func (m *Manager) Current(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, nil
	}
	record, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return record, nil
}

// CacheChefProfile stores the secondary profile data fetched from
// /auth/profile alongside the session, so repeat views skip the round trip.
func (m *Manager) CacheChefProfile(ctx context.Context, id string, profile *models.ChefProfile) error {
	record, err := m.Current(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no session %s", id)
	}
	record.ChefProfile = profile
	if err := m.repo.Set(ctx, record); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
