package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Rating bounds and text limit for reviews.
const (
	MinRating     = 1
	MaxRating     = 5
	MaxReviewText = 2000
)

// Dimension names one of the three rated aspects of a course.
type Dimension string

const (
	DimensionOverall    Dimension = "overall"
	DimensionQuality    Dimension = "quality"
	DimensionDifficulty Dimension = "difficulty"
)

// Dimensions lists the rated aspects in display order.
var Dimensions = []Dimension{DimensionOverall, DimensionQuality, DimensionDifficulty}

// ValidDimension reports whether d is a known rating dimension.
func ValidDimension(d Dimension) bool {
	switch d {
	case DimensionOverall, DimensionQuality, DimensionDifficulty:
		return true
	}
	return false
}

// Review is a committed course review. Deleted reviews stay in storage with
// the Deleted flag set; at most one live review exists per (user, course).
type Review struct {
	ID         string
	CourseID   string
	UserID     int64
	Overall    int
	Quality    int
	Difficulty int
	Text       string
	Anonymous  bool
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReviewDraft is the ephemeral scratch buffer built up field-by-field while
// a user drafts or edits a review. It is never persisted; a process restart
// loses in-progress drafts.
type ReviewDraft struct {
	UserID         int64
	CourseID       string
	SourceReviewID string // set when editing an existing review
	Overall        int    // 0 = unset
	Quality        int
	Difficulty     int
	Text           string
	Anonymous      bool
}

// Rating returns the draft's value for a dimension (0 when unset).
func (d *ReviewDraft) Rating(dim Dimension) int {
	switch dim {
	case DimensionOverall:
		return d.Overall
	case DimensionQuality:
		return d.Quality
	case DimensionDifficulty:
		return d.Difficulty
	}
	return 0
}

// SetRating stores a rating for a dimension. Values outside 1-5 and unknown
// dimensions are rejected.
func (d *ReviewDraft) SetRating(dim Dimension, value int) error {
	if value < MinRating || value > MaxRating {
		return fmt.Errorf("%w: rating %d is outside %d-%d", ErrValidation, value, MinRating, MaxRating)
	}
	switch dim {
	case DimensionOverall:
		d.Overall = value
	case DimensionQuality:
		d.Quality = value
	case DimensionDifficulty:
		d.Difficulty = value
	default:
		return fmt.Errorf("%w: unknown rating dimension %q", ErrValidation, dim)
	}
	return nil
}

// Validate checks that the draft is complete enough to commit: all three
// ratings set within bounds and text within the length limit.
func (d *ReviewDraft) Validate() error {
	for _, dim := range Dimensions {
		v := d.Rating(dim)
		if v < MinRating || v > MaxRating {
			return fmt.Errorf("%w: %s rating is not set", ErrValidation, dim)
		}
	}
	if utf8.RuneCountInString(d.Text) > MaxReviewText {
		return fmt.Errorf("%w: text exceeds %d characters", ErrValidation, MaxReviewText)
	}
	return nil
}
