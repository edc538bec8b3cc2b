package domain

import (
	"testing"
	"time"
)

func TestIsValidTransitionRootAlwaysReachable(t *testing.T) {
	for _, from := range AllStates {
		if !IsValidTransition(from, StateRoot) {
			t.Errorf("transition %s -> ROOT should always be valid", from)
		}
	}
}

func TestIsValidTransitionAllowList(t *testing.T) {
	// Every allowed pair, exhaustively. Anything not listed here (other than
	// a move to ROOT) must be rejected.
	allowed := map[State][]State{
		StateRoot:              {StateBrowsing, StateViewingOwnReviews, StateCollectingName},
		StateBrowsing:          {StateBrowsing, StateViewingReview},
		StateViewingReview:     {StateViewingReview, StateBrowsing, StateDrafting, StateEditingReview},
		StateDrafting:          {StateDrafting, StateViewingReview, StateCollectingName},
		StateCollectingName:    {StateCollectingTag},
		StateCollectingTag:     {},
		StateViewingOwnReviews: {StateViewingOwnReviews, StateEditingReview},
		StateEditingReview:     {StateEditingReview, StateEditingReviewText, StateViewingOwnReviews, StateViewingReview},
		StateEditingReviewText: {StateEditingReview},
	}

	for _, from := range AllStates {
		want := make(map[State]bool)
		want[StateRoot] = true
		for _, to := range allowed[from] {
			want[to] = true
		}
		for _, to := range AllStates {
			got := IsValidTransition(from, to)
			if got != want[to] {
				t.Errorf("IsValidTransition(%s, %s) = %v, want %v", from, to, got, want[to])
			}
		}
	}
}

func TestSessionExpired(t *testing.T) {
	window := 30 * time.Minute
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := &Session{UserID: 1, State: StateRoot, LastActivityAt: base}

	if s.Expired(base.Add(window), window) {
		t.Error("session exactly at the window boundary should not be expired")
	}
	if !s.Expired(base.Add(window+time.Second), window) {
		t.Error("session past the window should be expired")
	}
	if got, want := s.ExpiresAt(window), base.Add(window); !got.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", got, want)
	}
}
