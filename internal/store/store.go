// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

// Repository defines the interface for persisting conversation and review data.
// Lookups return (nil, nil) when no row exists; validation-level failures are
// reported through the domain sentinel errors.
type Repository interface {
	// GetSession retrieves the raw session row for a user, expired or not.
	// Expiry policy belongs to the session service, not the store.
	GetSession(ctx context.Context, userID int64) (*domain.Session, error)

	// UpsertSession creates or replaces a user's session row.
	UpsertSession(ctx context.Context, session *domain.Session) error

	// TouchSession bumps last_activity_at without changing state or context.
	TouchSession(ctx context.Context, userID int64, at time.Time) error

	// DeleteSession removes a user's session row.
	DeleteSession(ctx context.Context, userID int64) error

	// GetExpiredSessions retrieves sessions inactive for longer than the window.
	GetExpiredSessions(ctx context.Context, window time.Duration) ([]*domain.Session, error)

	// DeleteExpiredSessions removes sessions inactive for longer than the window.
	DeleteExpiredSessions(ctx context.Context, window time.Duration) (int64, error)

	// GetQuota retrieves a user's quota counter.
	GetQuota(ctx context.Context, userID int64) (*domain.QuotaCounter, error)

	// UpsertQuota creates or replaces a user's quota counter.
	UpsertQuota(ctx context.Context, counter *domain.QuotaCounter) error

	// GetProfile retrieves a user's profile.
	GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error)

	// UpsertProfile creates or updates a user's profile.
	UpsertProfile(ctx context.Context, profile *domain.UserProfile) error

	// GetCourse retrieves a course by ID.
	GetCourse(ctx context.Context, courseID string) (*domain.Course, error)

	// ListCategories returns the distinct course categories in order.
	ListCategories(ctx context.Context) ([]string, error)

	// ListCoursesByCategory returns a page of courses for a category.
	ListCoursesByCategory(ctx context.Context, category string, limit, offset int) ([]*domain.Course, error)

	// SeedCourses inserts catalog entries that do not exist yet.
	SeedCourses(ctx context.Context, courses []*domain.Course) error

	// GetReview retrieves a live (not soft-deleted) review by ID.
	GetReview(ctx context.Context, reviewID string) (*domain.Review, error)

	// GetUserReviewForCourse retrieves a user's live review of a course.
	GetUserReviewForCourse(ctx context.Context, userID int64, courseID string) (*domain.Review, error)

	// CreateReview inserts a new review. Returns domain.ErrDuplicateReview
	// if the user already has a live review for the course.
	CreateReview(ctx context.Context, review *domain.Review) error

	// UpdateReview replaces the mutable fields of a live review.
	// Returns domain.ErrNotFound if the review is absent or deleted.
	UpdateReview(ctx context.Context, review *domain.Review) error

	// SoftDeleteReview marks a review deleted, conditional on the author.
	// Returns domain.ErrNotFound if no live review matches.
	SoftDeleteReview(ctx context.Context, reviewID string, userID int64) error

	// ListCourseReviews returns a page of live reviews for a course,
	// newest first.
	ListCourseReviews(ctx context.Context, courseID string, limit, offset int) ([]*domain.Review, error)

	// ListUserReviews returns a page of a user's live reviews, newest first.
	ListUserReviews(ctx context.Context, userID int64, limit, offset int) ([]*domain.Review, error)

	// GetRatingSummary aggregates the live reviews of a course.
	GetRatingSummary(ctx context.Context, courseID string) (*domain.RatingSummary, error)

	// CastVote resolves a vote cast against the then-current row: create on
	// absence, remove on same direction, replace on opposite. Returns
	// domain.ErrNotFound for missing reviews and domain.ErrSelfVote when the
	// voter authored the review.
	CastVote(ctx context.Context, reviewID string, voterID int64, direction domain.VoteDirection) (domain.VoteOutcome, error)

	// GetVote retrieves the voter's current vote on a review.
	GetVote(ctx context.Context, reviewID string, voterID int64) (*domain.Vote, error)

	// CountVotes returns the up and down vote totals for a review.
	CountVotes(ctx context.Context, reviewID string) (up int, down int, err error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
