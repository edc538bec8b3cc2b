package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

// MemoryStore implements Repository with process-local maps. It exists for
// tests and single-process development runs; production deployments use the
// SQLite store so state survives restarts and is shared across instances.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]domain.Session
	quotas   map[int64]domain.QuotaCounter
	profiles map[int64]domain.UserProfile
	courses  map[string]domain.Course
	reviews  map[string]domain.Review
	votes    map[string]domain.Vote // keyed by reviewID + "/" + voter
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]domain.Session),
		quotas:   make(map[int64]domain.QuotaCounter),
		profiles: make(map[int64]domain.UserProfile),
		courses:  make(map[string]domain.Course),
		reviews:  make(map[string]domain.Review),
		votes:    make(map[string]domain.Vote),
	}
}

func voteKey(reviewID string, voterID int64) string {
	return reviewID + "/" + strconv.FormatInt(voterID, 10)
}

// GetSession retrieves the raw session row for a user.
func (m *MemoryStore) GetSession(_ context.Context, userID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		dup := s
		return &dup, nil
	}
	return nil, nil
}

// UpsertSession creates or replaces a user's session row.
func (m *MemoryStore) UpsertSession(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = *session
	return nil
}

// TouchSession bumps last_activity_at without changing state or context.
func (m *MemoryStore) TouchSession(_ context.Context, userID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.LastActivityAt = at
		m.sessions[userID] = s
	}
	return nil
}

// DeleteSession removes a user's session row.
func (m *MemoryStore) DeleteSession(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

// GetExpiredSessions retrieves sessions inactive for longer than the window.
func (m *MemoryStore) GetExpiredSessions(_ context.Context, window time.Duration) ([]*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	threshold := time.Now().Add(-window)
	var expired []*domain.Session
	for _, s := range m.sessions {
		if s.LastActivityAt.Before(threshold) {
			dup := s
			expired = append(expired, &dup)
		}
	}
	return expired, nil
}

// DeleteExpiredSessions removes sessions inactive for longer than the window.
func (m *MemoryStore) DeleteExpiredSessions(_ context.Context, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	threshold := time.Now().Add(-window)
	var deleted int64
	for id, s := range m.sessions {
		if s.LastActivityAt.Before(threshold) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// GetQuota retrieves a user's quota counter.
func (m *MemoryStore) GetQuota(_ context.Context, userID int64) (*domain.QuotaCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.quotas[userID]; ok {
		dup := q
		return &dup, nil
	}
	return nil, nil
}

// UpsertQuota creates or replaces a user's quota counter.
func (m *MemoryStore) UpsertQuota(_ context.Context, counter *domain.QuotaCounter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotas[counter.UserID] = *counter
	return nil
}

// GetProfile retrieves a user's profile.
func (m *MemoryStore) GetProfile(_ context.Context, userID int64) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[userID]; ok {
		dup := p
		return &dup, nil
	}
	return nil, nil
}

// UpsertProfile creates or updates a user's profile.
func (m *MemoryStore) UpsertProfile(_ context.Context, profile *domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = *profile
	return nil
}

// GetCourse retrieves a course by ID.
func (m *MemoryStore) GetCourse(_ context.Context, courseID string) (*domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.courses[courseID]; ok {
		dup := c
		return &dup, nil
	}
	return nil, nil
}

// ListCategories returns the distinct course categories in order.
func (m *MemoryStore) ListCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var categories []string
	for _, c := range m.courses {
		if !seen[c.Category] {
			seen[c.Category] = true
			categories = append(categories, c.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// ListCoursesByCategory returns a page of courses for a category.
func (m *MemoryStore) ListCoursesByCategory(_ context.Context, category string, limit, offset int) ([]*domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Course
	for _, c := range m.courses {
		if c.Category == category {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return pageCourses(all, limit, offset), nil
}

func pageCourses(all []domain.Course, limit, offset int) []*domain.Course {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*domain.Course, 0, end-offset)
	for i := offset; i < end; i++ {
		dup := all[i]
		out = append(out, &dup)
	}
	return out
}

// SeedCourses inserts catalog entries that do not exist yet.
func (m *MemoryStore) SeedCourses(_ context.Context, courses []*domain.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range courses {
		if _, ok := m.courses[c.ID]; !ok {
			m.courses[c.ID] = *c
		}
	}
	return nil
}

// GetReview retrieves a live (not soft-deleted) review by ID.
func (m *MemoryStore) GetReview(_ context.Context, reviewID string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reviews[reviewID]; ok && !r.Deleted {
		dup := r
		return &dup, nil
	}
	return nil, nil
}

// GetUserReviewForCourse retrieves a user's live review of a course.
func (m *MemoryStore) GetUserReviewForCourse(_ context.Context, userID int64, courseID string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.UserID == userID && r.CourseID == courseID && !r.Deleted {
			dup := r
			return &dup, nil
		}
	}
	return nil, nil
}

// CreateReview inserts a new review, enforcing one live review per
// (user, course).
func (m *MemoryStore) CreateReview(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.CourseID == review.CourseID && !r.Deleted {
			return domain.ErrDuplicateReview
		}
	}
	m.reviews[review.ID] = *review
	return nil
}

// UpdateReview replaces the mutable fields of a live review.
func (m *MemoryStore) UpdateReview(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[review.ID]
	if !ok || existing.Deleted {
		return domain.ErrNotFound
	}
	existing.Overall = review.Overall
	existing.Quality = review.Quality
	existing.Difficulty = review.Difficulty
	existing.Text = review.Text
	existing.Anonymous = review.Anonymous
	existing.UpdatedAt = time.Now()
	m.reviews[review.ID] = existing
	return nil
}

// SoftDeleteReview marks a review deleted, conditional on the author.
func (m *MemoryStore) SoftDeleteReview(_ context.Context, reviewID string, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reviews[reviewID]
	if !ok || existing.Deleted || existing.UserID != userID {
		return domain.ErrNotFound
	}
	existing.Deleted = true
	existing.UpdatedAt = time.Now()
	m.reviews[reviewID] = existing
	return nil
}

// ListCourseReviews returns a page of live reviews for a course, newest first.
func (m *MemoryStore) ListCourseReviews(_ context.Context, courseID string, limit, offset int) ([]*domain.Review, error) {
	return m.listReviews(func(r domain.Review) bool { return r.CourseID == courseID }, limit, offset)
}

// ListUserReviews returns a page of a user's live reviews, newest first.
func (m *MemoryStore) ListUserReviews(_ context.Context, userID int64, limit, offset int) ([]*domain.Review, error) {
	return m.listReviews(func(r domain.Review) bool { return r.UserID == userID }, limit, offset)
}

func (m *MemoryStore) listReviews(match func(domain.Review) bool, limit, offset int) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Review
	for _, r := range m.reviews {
		if !r.Deleted && match(r) {
			all = append(all, r)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*domain.Review, 0, end-offset)
	for i := offset; i < end; i++ {
		dup := all[i]
		out = append(out, &dup)
	}
	return out, nil
}

// GetRatingSummary aggregates the live reviews of a course.
func (m *MemoryStore) GetRatingSummary(_ context.Context, courseID string) (*domain.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := domain.RatingSummary{CourseID: courseID}
	var overall, quality, difficulty int
	for _, r := range m.reviews {
		if r.CourseID == courseID && !r.Deleted {
			summary.ReviewCount++
			overall += r.Overall
			quality += r.Quality
			difficulty += r.Difficulty
		}
	}
	if summary.ReviewCount > 0 {
		n := float64(summary.ReviewCount)
		summary.AvgOverall = float64(overall) / n
		summary.AvgQuality = float64(quality) / n
		summary.AvgDifficulty = float64(difficulty) / n
	}
	return &summary, nil
}

// CastVote resolves a vote cast against the then-current row.
func (m *MemoryStore) CastVote(_ context.Context, reviewID string, voterID int64, direction domain.VoteDirection) (domain.VoteOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	review, ok := m.reviews[reviewID]
	if !ok || review.Deleted {
		return "", domain.ErrNotFound
	}
	if review.UserID == voterID {
		return "", domain.ErrSelfVote
	}

	key := voteKey(reviewID, voterID)
	current, exists := m.votes[key]
	switch {
	case !exists:
		m.votes[key] = domain.Vote{
			ReviewID:  reviewID,
			VoterID:   voterID,
			Direction: direction,
			CreatedAt: time.Now(),
		}
		return domain.VoteCreated, nil
	case current.Direction == direction:
		delete(m.votes, key)
		return domain.VoteRemoved, nil
	default:
		current.Direction = direction
		current.CreatedAt = time.Now()
		m.votes[key] = current
		return domain.VoteReplaced, nil
	}
}

// GetVote retrieves the voter's current vote on a review.
func (m *MemoryStore) GetVote(_ context.Context, reviewID string, voterID int64) (*domain.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.votes[voteKey(reviewID, voterID)]; ok {
		dup := v
		return &dup, nil
	}
	return nil, nil
}

// CountVotes returns the up and down vote totals for a review.
func (m *MemoryStore) CountVotes(_ context.Context, reviewID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var up, down int
	for _, v := range m.votes {
		if v.ReviewID != reviewID {
			continue
		}
		if v.Direction == domain.VoteUp {
			up++
		} else {
			down++
		}
	}
	return up, down, nil
}

// Ping implements Repository.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close implements Repository.
func (m *MemoryStore) Close() error { return nil }
