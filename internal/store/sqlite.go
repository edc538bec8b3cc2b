package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	voteMu sync.Mutex // serializes vote transactions to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		user_id INTEGER PRIMARY KEY,
		state TEXT NOT NULL,
		context_json TEXT NOT NULL DEFAULT '{}',
		last_activity_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_activity ON sessions(last_activity_at);

	CREATE TABLE IF NOT EXISTS quotas (
		user_id INTEGER PRIMARY KEY,
		daily_count INTEGER NOT NULL DEFAULT 0,
		lifetime_count INTEGER NOT NULL DEFAULT 0,
		window_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id INTEGER PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		tag TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS courses (
		course_id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_courses_category ON courses(category, code);

	CREATE TABLE IF NOT EXISTS reviews (
		review_id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		overall INTEGER NOT NULL,
		quality INTEGER NOT NULL,
		difficulty INTEGER NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		anonymous INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_course ON reviews(course_id, deleted, created_at);
	CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id, deleted, created_at);

	CREATE TABLE IF NOT EXISTS votes (
		review_id TEXT NOT NULL,
		voter_id INTEGER NOT NULL,
		direction TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (review_id, voter_id)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetSession retrieves the raw session row for a user.
func (s *SQLiteStore) GetSession(ctx context.Context, userID int64) (*domain.Session, error) {
	query := `SELECT user_id, state, context_json, last_activity_at FROM sessions WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var session domain.Session
	var contextJSON string
	var lastActivity int64

	err := row.Scan(&session.UserID, &session.State, &contextJSON, &lastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	if err := unmarshalContext(contextJSON, &session.Context); err != nil {
		return nil, fmt.Errorf("decode session context: %w", err)
	}
	session.LastActivityAt = time.Unix(lastActivity, 0)

	return &session, nil
}

// UpsertSession creates or replaces a user's session row.
func (s *SQLiteStore) UpsertSession(ctx context.Context, session *domain.Session) error {
	contextJSON, err := marshalContext(session.Context)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}

	query := `
	INSERT INTO sessions (user_id, state, context_json, last_activity_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		state = excluded.state,
		context_json = excluded.context_json,
		last_activity_at = excluded.last_activity_at`

	_, err = s.db.ExecContext(ctx, query,
		session.UserID, string(session.State), contextJSON, session.LastActivityAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// TouchSession bumps last_activity_at without changing state or context.
func (s *SQLiteStore) TouchSession(ctx context.Context, userID int64, at time.Time) error {
	query := `UPDATE sessions SET last_activity_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, at.Unix(), userID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("TouchSession affected 0 rows", "user_id", userID)
	}

	return nil
}

// DeleteSession removes a user's session row.
func (s *SQLiteStore) DeleteSession(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GetExpiredSessions retrieves sessions inactive for longer than the window.
func (s *SQLiteStore) GetExpiredSessions(ctx context.Context, window time.Duration) ([]*domain.Session, error) {
	threshold := time.Now().Add(-window).Unix()
	query := `SELECT user_id, state, context_json, last_activity_at FROM sessions WHERE last_activity_at < ?`

	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("query expired sessions: %w", err)
	}
	defer closeRows(rows, "expired sessions")

	var sessions []*domain.Session
	for rows.Next() {
		var session domain.Session
		var contextJSON string
		var lastActivity int64

		if err := rows.Scan(&session.UserID, &session.State, &contextJSON, &lastActivity); err != nil {
			return nil, fmt.Errorf("scan expired session row: %w", err)
		}
		if err := unmarshalContext(contextJSON, &session.Context); err != nil {
			return nil, fmt.Errorf("decode session context: %w", err)
		}
		session.LastActivityAt = time.Unix(lastActivity, 0)
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired sessions: %w", err)
	}

	return sessions, nil
}

// DeleteExpiredSessions removes sessions inactive for longer than the window.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, window time.Duration) (int64, error) {
	threshold := time.Now().Add(-window).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_activity_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// GetQuota retrieves a user's quota counter.
func (s *SQLiteStore) GetQuota(ctx context.Context, userID int64) (*domain.QuotaCounter, error) {
	query := `SELECT user_id, daily_count, lifetime_count, window_date FROM quotas WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var counter domain.QuotaCounter
	err := row.Scan(&counter.UserID, &counter.DailyCount, &counter.LifetimeCount, &counter.WindowDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan quota row: %w", err)
	}

	return &counter, nil
}

// UpsertQuota creates or replaces a user's quota counter.
func (s *SQLiteStore) UpsertQuota(ctx context.Context, counter *domain.QuotaCounter) error {
	query := `
	INSERT INTO quotas (user_id, daily_count, lifetime_count, window_date)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		daily_count = excluded.daily_count,
		lifetime_count = excluded.lifetime_count,
		window_date = excluded.window_date`

	_, err := s.db.ExecContext(ctx, query,
		counter.UserID, counter.DailyCount, counter.LifetimeCount, counter.WindowDate,
	)
	if err != nil {
		return fmt.Errorf("upsert quota: %w", err)
	}
	return nil
}

// GetProfile retrieves a user's profile.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	query := `SELECT user_id, display_name, tag, created_at, updated_at FROM profiles WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var profile domain.UserProfile
	var createdAt, updatedAt int64

	err := row.Scan(&profile.UserID, &profile.DisplayName, &profile.Tag, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	profile.CreatedAt = time.Unix(createdAt, 0)
	profile.UpdatedAt = time.Unix(updatedAt, 0)

	return &profile, nil
}

// UpsertProfile creates or updates a user's profile.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, profile *domain.UserProfile) error {
	query := `
	INSERT INTO profiles (user_id, display_name, tag, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		display_name = excluded.display_name,
		tag = excluded.tag,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		profile.UserID, profile.DisplayName, profile.Tag,
		profile.CreatedAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetCourse retrieves a course by ID.
func (s *SQLiteStore) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	query := `SELECT course_id, code, name, category FROM courses WHERE course_id = ?`

	row := s.db.QueryRowContext(ctx, query, courseID)

	var course domain.Course
	err := row.Scan(&course.ID, &course.Code, &course.Name, &course.Category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan course row: %w", err)
	}

	return &course, nil
}

// ListCategories returns the distinct course categories in order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM courses ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer closeRows(rows, "categories")

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// ListCoursesByCategory returns a page of courses for a category.
func (s *SQLiteStore) ListCoursesByCategory(ctx context.Context, category string, limit, offset int) ([]*domain.Course, error) {
	query := `SELECT course_id, code, name, category FROM courses WHERE category = ? ORDER BY code LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer closeRows(rows, "courses")

	var courses []*domain.Course
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Code, &course.Name, &course.Category); err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// SeedCourses inserts catalog entries that do not exist yet.
func (s *SQLiteStore) SeedCourses(ctx context.Context, courses []*domain.Course) error {
	query := `
	INSERT INTO courses (course_id, code, name, category)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(course_id) DO NOTHING`

	for _, course := range courses {
		if _, err := s.db.ExecContext(ctx, query, course.ID, course.Code, course.Name, course.Category); err != nil {
			return fmt.Errorf("seed course %s: %w", course.ID, err)
		}
	}
	return nil
}

const reviewColumns = `review_id, course_id, user_id, overall, quality, difficulty, text, anonymous, deleted, created_at, updated_at`

func scanReview(scanner interface{ Scan(...any) error }) (*domain.Review, error) {
	var review domain.Review
	var anonymous, deleted int
	var createdAt, updatedAt int64

	err := scanner.Scan(
		&review.ID, &review.CourseID, &review.UserID,
		&review.Overall, &review.Quality, &review.Difficulty,
		&review.Text, &anonymous, &deleted, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.Anonymous = anonymous != 0
	review.Deleted = deleted != 0
	review.CreatedAt = time.Unix(createdAt, 0)
	review.UpdatedAt = time.Unix(updatedAt, 0)

	return &review, nil
}

// GetReview retrieves a live (not soft-deleted) review by ID.
func (s *SQLiteStore) GetReview(ctx context.Context, reviewID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE review_id = ? AND deleted = 0`

	review, err := scanReview(s.db.QueryRowContext(ctx, query, reviewID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan review row: %w", err)
	}

	return review, nil
}

// GetUserReviewForCourse retrieves a user's live review of a course.
func (s *SQLiteStore) GetUserReviewForCourse(ctx context.Context, userID int64, courseID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = ? AND course_id = ? AND deleted = 0`

	review, err := scanReview(s.db.QueryRowContext(ctx, query, userID, courseID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan review row: %w", err)
	}

	return review, nil
}

// CreateReview inserts a new review, enforcing one live review per
// (user, course) inside a transaction.
func (s *SQLiteStore) CreateReview(ctx context.Context, review *domain.Review) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create review: %w", err)
	}
	defer rollback(tx, "create review")

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM reviews WHERE user_id = ? AND course_id = ? AND deleted = 0`,
		review.UserID, review.CourseID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing review: %w", err)
	}
	if existing > 0 {
		return domain.ErrDuplicateReview
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO reviews (`+reviewColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		review.ID, review.CourseID, review.UserID,
		review.Overall, review.Quality, review.Difficulty,
		review.Text, boolToInt(review.Anonymous),
		review.CreatedAt.Unix(), review.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create review: %w", err)
	}
	return nil
}

// UpdateReview replaces the mutable fields of a live review.
func (s *SQLiteStore) UpdateReview(ctx context.Context, review *domain.Review) error {
	query := `
	UPDATE reviews SET
		overall = ?, quality = ?, difficulty = ?,
		text = ?, anonymous = ?, updated_at = ?
	WHERE review_id = ? AND deleted = 0`

	result, err := s.db.ExecContext(ctx, query,
		review.Overall, review.Quality, review.Difficulty,
		review.Text, boolToInt(review.Anonymous), time.Now().Unix(),
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDeleteReview marks a review deleted, conditional on the author.
func (s *SQLiteStore) SoftDeleteReview(ctx context.Context, reviewID string, userID int64) error {
	query := `UPDATE reviews SET deleted = 1, updated_at = ? WHERE review_id = ? AND user_id = ? AND deleted = 0`

	result, err := s.db.ExecContext(ctx, query, time.Now().Unix(), reviewID, userID)
	if err != nil {
		return fmt.Errorf("soft delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListCourseReviews returns a page of live reviews for a course, newest first.
func (s *SQLiteStore) ListCourseReviews(ctx context.Context, courseID string, limit, offset int) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
	WHERE course_id = ? AND deleted = 0
	ORDER BY created_at DESC, review_id LIMIT ? OFFSET ?`

	return s.listReviews(ctx, query, courseID, limit, offset)
}

// ListUserReviews returns a page of a user's live reviews, newest first.
func (s *SQLiteStore) ListUserReviews(ctx context.Context, userID int64, limit, offset int) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
	WHERE user_id = ? AND deleted = 0
	ORDER BY created_at DESC, review_id LIMIT ? OFFSET ?`

	return s.listReviews(ctx, query, userID, limit, offset)
}

func (s *SQLiteStore) listReviews(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer closeRows(rows, "reviews")

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// GetRatingSummary aggregates the live reviews of a course.
func (s *SQLiteStore) GetRatingSummary(ctx context.Context, courseID string) (*domain.RatingSummary, error) {
	query := `
	SELECT COUNT(1),
	       COALESCE(AVG(overall), 0),
	       COALESCE(AVG(quality), 0),
	       COALESCE(AVG(difficulty), 0)
	FROM reviews WHERE course_id = ? AND deleted = 0`

	summary := domain.RatingSummary{CourseID: courseID}
	err := s.db.QueryRowContext(ctx, query, courseID).Scan(
		&summary.ReviewCount, &summary.AvgOverall, &summary.AvgQuality, &summary.AvgDifficulty,
	)
	if err != nil {
		return nil, fmt.Errorf("scan rating summary: %w", err)
	}

	return &summary, nil
}

// CastVote resolves a vote cast against the then-current row inside a
// transaction so concurrent casts for the same (voter, review) serialize.
// Retries with exponential backoff on SQLITE_BUSY, which can occur when a
// sweep or commit holds the write lock.
func (s *SQLiteStore) CastVote(ctx context.Context, reviewID string, voterID int64, direction domain.VoteDirection) (domain.VoteOutcome, error) {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var outcome domain.VoteOutcome
	var err error
	for i := 0; i < maxRetries; i++ {
		outcome, err = s.castVoteOnce(ctx, reviewID, voterID, direction)
		if err == nil || !isBusyError(err) {
			return outcome, err
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i) // 100ms, 200ms, 400ms
			slog.Debug("CastVote hit SQLITE_BUSY, retrying",
				"review_id", reviewID,
				"voter_id", voterID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
		}
	}
	return "", fmt.Errorf("cast vote after %d attempts: %w", maxRetries, err)
}

// isBusyError checks for SQLite concurrency errors that warrant a retry.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func (s *SQLiteStore) castVoteOnce(ctx context.Context, reviewID string, voterID int64, direction domain.VoteDirection) (domain.VoteOutcome, error) {
	s.voteMu.Lock()
	defer s.voteMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin cast vote: %w", err)
	}
	defer rollback(tx, "cast vote")

	var authorID int64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM reviews WHERE review_id = ? AND deleted = 0`, reviewID,
	).Scan(&authorID)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("check review author: %w", err)
	}
	if authorID == voterID {
		return "", domain.ErrSelfVote
	}

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT direction FROM votes WHERE review_id = ? AND voter_id = ?`, reviewID, voterID,
	).Scan(&current)

	var outcome domain.VoteOutcome
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO votes (review_id, voter_id, direction, created_at) VALUES (?, ?, ?, ?)`,
			reviewID, voterID, string(direction), time.Now().Unix(),
		)
		if err != nil {
			return "", fmt.Errorf("insert vote: %w", err)
		}
		outcome = domain.VoteCreated
	case err != nil:
		return "", fmt.Errorf("check existing vote: %w", err)
	case current == string(direction):
		_, err = tx.ExecContext(ctx,
			`DELETE FROM votes WHERE review_id = ? AND voter_id = ?`, reviewID, voterID,
		)
		if err != nil {
			return "", fmt.Errorf("remove vote: %w", err)
		}
		outcome = domain.VoteRemoved
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE votes SET direction = ?, created_at = ? WHERE review_id = ? AND voter_id = ?`,
			string(direction), time.Now().Unix(), reviewID, voterID,
		)
		if err != nil {
			return "", fmt.Errorf("replace vote: %w", err)
		}
		outcome = domain.VoteReplaced
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit cast vote: %w", err)
	}
	return outcome, nil
}

// GetVote retrieves the voter's current vote on a review.
func (s *SQLiteStore) GetVote(ctx context.Context, reviewID string, voterID int64) (*domain.Vote, error) {
	query := `SELECT review_id, voter_id, direction, created_at FROM votes WHERE review_id = ? AND voter_id = ?`

	row := s.db.QueryRowContext(ctx, query, reviewID, voterID)

	var vote domain.Vote
	var direction string
	var createdAt int64

	err := row.Scan(&vote.ReviewID, &vote.VoterID, &direction, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan vote row: %w", err)
	}

	vote.Direction = domain.VoteDirection(direction)
	vote.CreatedAt = time.Unix(createdAt, 0)

	return &vote, nil
}

// CountVotes returns the up and down vote totals for a review.
func (s *SQLiteStore) CountVotes(ctx context.Context, reviewID string) (int, int, error) {
	query := `
	SELECT
		COALESCE(SUM(CASE WHEN direction = 'up' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN direction = 'down' THEN 1 ELSE 0 END), 0)
	FROM votes WHERE review_id = ?`

	var up, down int
	if err := s.db.QueryRowContext(ctx, query, reviewID).Scan(&up, &down); err != nil {
		return 0, 0, fmt.Errorf("scan vote counts: %w", err)
	}
	return up, down, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "what", what, "error", err)
	}
}

func rollback(tx *sql.Tx, what string) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Warn("failed to roll back transaction", "what", what, "error", err)
	}
}
