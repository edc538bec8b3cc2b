package domain

import "time"

// VoteDirection is the direction of a review vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ValidVoteDirection reports whether d is a known vote direction.
func ValidVoteDirection(d VoteDirection) bool {
	return d == VoteUp || d == VoteDown
}

// Vote is one user's vote on one review. Uniqueness holds on the
// (review, voter) pair: casting the same direction again removes the vote,
// casting the opposite direction replaces it.
type Vote struct {
	ReviewID  string
	VoterID   int64
	Direction VoteDirection
	CreatedAt time.Time
}

// VoteOutcome describes what a cast resolved to against the then-current row.
type VoteOutcome string

const (
	VoteCreated  VoteOutcome = "created"
	VoteRemoved  VoteOutcome = "removed"
	VoteReplaced VoteOutcome = "replaced"
)
