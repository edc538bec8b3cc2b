// Package draft holds the ephemeral per-user scratch buffer used while a
// review is built or edited field-by-field. Drafts live only in process
// memory: a restart loses in-progress edits and the user re-enters edit mode.
package draft

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
	"github.com/google/uuid"
)

// Editor manages one in-progress review draft per user.
type Editor struct {
	repo  store.Repository
	clock func() time.Time

	mu     sync.Mutex
	drafts map[int64]*domain.ReviewDraft
}

// NewEditor creates a draft editor backed by the repository for commits.
func NewEditor(repo store.Repository) *Editor {
	return &Editor{
		repo:   repo,
		clock:  time.Now,
		drafts: make(map[int64]*domain.ReviewDraft),
	}
}

// Begin starts a draft for a course. When editing an existing review,
// sourceReviewID seeds the draft with the review's current fields.
func (e *Editor) Begin(ctx context.Context, userID int64, courseID, sourceReviewID string) (*domain.ReviewDraft, error) {
	d := &domain.ReviewDraft{
		UserID:   userID,
		CourseID: courseID,
	}

	if sourceReviewID != "" {
		review, err := e.repo.GetReview(ctx, sourceReviewID)
		if err != nil {
			return nil, fmt.Errorf("load source review: %w", err)
		}
		if review == nil {
			return nil, domain.ErrNotFound
		}
		d.CourseID = review.CourseID
		d.SourceReviewID = review.ID
		d.Overall = review.Overall
		d.Quality = review.Quality
		d.Difficulty = review.Difficulty
		d.Text = review.Text
		d.Anonymous = review.Anonymous
	}

	e.mu.Lock()
	e.drafts[userID] = d
	e.mu.Unlock()

	return d, nil
}

// Get returns the user's active draft, or nil when none exists.
func (e *Editor) Get(userID int64) *domain.ReviewDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts[userID]
}

// SetRating stores a 1-5 rating for one dimension of the active draft.
func (e *Editor) SetRating(userID int64, dim domain.Dimension, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.drafts[userID]
	if !ok {
		return domain.ErrNoDraft
	}
	return d.SetRating(dim, value)
}

// SetText replaces the draft's descriptive text. An empty string clears it.
func (e *Editor) SetText(userID int64, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.drafts[userID]
	if !ok {
		return domain.ErrNoDraft
	}
	if utf8.RuneCountInString(text) > domain.MaxReviewText {
		return fmt.Errorf("%w: text exceeds %d characters", domain.ErrValidation, domain.MaxReviewText)
	}
	d.Text = text
	return nil
}

// ToggleAnonymous flips whether the committed review hides the author.
func (e *Editor) ToggleAnonymous(userID int64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.drafts[userID]
	if !ok {
		return false, domain.ErrNoDraft
	}
	d.Anonymous = !d.Anonymous
	return d.Anonymous, nil
}

// Commit validates the draft and writes it to the durable store: an update
// when the draft has a source review, a create otherwise. The draft is
// discarded only on success; any failure keeps it so the user can retry.
func (e *Editor) Commit(ctx context.Context, userID int64) (*domain.Review, error) {
	e.mu.Lock()
	d, ok := e.drafts[userID]
	e.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoDraft
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	now := e.clock()
	review := &domain.Review{
		CourseID:   d.CourseID,
		UserID:     userID,
		Overall:    d.Overall,
		Quality:    d.Quality,
		Difficulty: d.Difficulty,
		Text:       d.Text,
		Anonymous:  d.Anonymous,
		UpdatedAt:  now,
	}

	if d.SourceReviewID != "" {
		review.ID = d.SourceReviewID
		if err := e.repo.UpdateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("commit review update: %w", err)
		}
	} else {
		review.ID = uuid.NewString()
		review.CreatedAt = now
		if err := e.repo.CreateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("commit review create: %w", err)
		}
	}

	e.Discard(userID)
	return review, nil
}

// Discard drops the user's draft, if any.
func (e *Editor) Discard(userID int64) {
	e.mu.Lock()
	delete(e.drafts, userID)
	e.mu.Unlock()
}
