package domain

import "errors"

// Sentinel errors for the engine's failure taxonomy. Callers wrap these with
// fmt.Errorf("...: %w", ...) and match with errors.Is.
var (
	// ErrValidation covers out-of-range ratings, oversize text and
	// malformed callback tokens. Always user-visible with a corrective hint.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks an attempted state change outside the
	// allow-list. Treated as an invariant violation: logged, and the event
	// redirected to the root state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotFound marks an edit, delete or vote referencing a review that
	// no longer exists or was soft-deleted.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateReview marks an attempt to create a second live review
	// for the same course by the same user. Surfaced as an offer to edit
	// the existing one.
	ErrDuplicateReview = errors.New("review already exists for course")

	// ErrSelfVote marks an attempt to vote on one's own review.
	ErrSelfVote = errors.New("cannot vote on own review")

	// ErrNoDraft marks a draft operation for a user with no active draft.
	ErrNoDraft = errors.New("no active draft")
)
