// Package domain contains core domain types for the PickYourCourses bot.
package domain

import (
	"time"
)

// State identifies where a user's conversation currently is.
type State string

const (
	// StateRoot is the initial state and the universal escape hatch.
	StateRoot State = "ROOT"
	// StateBrowsing means the user is paging through a course category.
	StateBrowsing State = "BROWSING"
	// StateViewingReview means the user is looking at a course's reviews.
	StateViewingReview State = "VIEWING_REVIEW"
	// StateDrafting means the user is composing a new review.
	StateDrafting State = "DRAFTING"
	// StateCollectingName means the bot is waiting for a display name.
	StateCollectingName State = "COLLECTING_NAME"
	// StateCollectingTag means the bot is waiting for a profile tag.
	StateCollectingTag State = "COLLECTING_TAG"
	// StateViewingOwnReviews means the user is listing their own reviews.
	StateViewingOwnReviews State = "VIEWING_OWN_REVIEWS"
	// StateEditingReview means the user is mutating an existing review.
	StateEditingReview State = "EDITING_REVIEW"
	// StateEditingReviewText means the bot is waiting for replacement text.
	StateEditingReviewText State = "EDITING_REVIEW_TEXT"
)

// AllStates lists every member of the closed state set.
var AllStates = []State{
	StateRoot,
	StateBrowsing,
	StateViewingReview,
	StateDrafting,
	StateCollectingName,
	StateCollectingTag,
	StateViewingOwnReviews,
	StateEditingReview,
	StateEditingReviewText,
}

// allowedTransitions is the explicit allow-list keyed by current state.
// StateRoot is reachable from anywhere and is not listed per-row.
var allowedTransitions = map[State][]State{
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

// IsValidTransition reports whether moving from one state to another is
// allowed. A transition to StateRoot is unconditionally valid; everything
// else must match the allow-list for the current state. Callers consult
// this before changing state; the session store itself does not enforce it.
func IsValidTransition(from, to State) bool {
	if to == StateRoot {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SessionContext is the state-specific payload carried alongside the state.
// Unused fields stay zero; the whole struct is serialized as JSON in the
// session row.
type SessionContext struct {
	Category string `json:"category,omitempty"`
	CourseID string `json:"course_id,omitempty"`
	ReviewID string `json:"review_id,omitempty"`
	Page     int    `json:"page,omitempty"`
}

// Session is the durable record of one user's conversation position.
// At most one live session exists per user; a session older than the
// inactivity window is logically absent.
type Session struct {
	UserID         int64
	State          State
	Context        SessionContext
	LastActivityAt time.Time
}

// ExpiresAt returns the moment the session becomes logically absent.
func (s *Session) ExpiresAt(window time.Duration) time.Time {
	return s.LastActivityAt.Add(window)
}

// Expired reports whether the session has outlived the inactivity window.
func (s *Session) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(s.LastActivityAt) > window
}
