// Package session implements the per-user conversation state store and the
// inactivity timeout supervisor.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

// Store tracks where each user's conversation currently is. Expiry is lazy:
// a session older than the inactivity window is treated as absent and the
// row is deleted on read.
type Store struct {
	repo   store.Repository
	window time.Duration
	clock  func() time.Time
}

// NewStore creates a session store over the repository.
func NewStore(repo store.Repository, window time.Duration) *Store {
	return &Store{
		repo:   repo,
		window: window,
		clock:  time.Now,
	}
}

// Window returns the configured inactivity window.
func (s *Store) Window() time.Duration {
	return s.window
}

// Get returns the user's live session, or nil when none exists. An expired
// session is deleted as a side effect and reported as absent.
func (s *Store) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(s.clock(), s.window) {
		if err := s.repo.DeleteSession(ctx, userID); err != nil {
			slog.Warn("failed to delete expired session", "user_id", userID, "error", err)
		}
		return nil, nil
	}

	return session, nil
}

// Set moves the user to a new state with the given context payload,
// creating the session if absent. Callers validate the transition with
// domain.IsValidTransition first; the store does not enforce the table.
func (s *Store) Set(ctx context.Context, userID int64, state domain.State, sctx domain.SessionContext) error {
	session := &domain.Session{
		UserID:         userID,
		State:          state,
		Context:        sctx,
		LastActivityAt: s.clock(),
	}
	if err := s.repo.UpsertSession(ctx, session); err != nil {
		return fmt.Errorf("set session state: %w", err)
	}
	return nil
}

// Renew bumps the activity timestamp without changing state or context.
func (s *Store) Renew(ctx context.Context, userID int64) error {
	if err := s.repo.TouchSession(ctx, userID, s.clock()); err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	return nil
}

// Clear removes the user's session entirely.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteSession(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
