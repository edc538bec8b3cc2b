// Package quota enforces per-user daily and lifetime message quotas.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

// Reason explains why a message was denied.
type Reason string

const (
	// ReasonDaily means the daily limit was hit; the quota resets at the
	// next midnight in the reference timezone.
	ReasonDaily Reason = "daily"
	// ReasonLifetime means the lifetime limit was hit. Permanent.
	ReasonLifetime Reason = "lifetime"
)

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed       bool
	DailyCount    int
	LifetimeCount int
	DailyLimit    int
	LifetimeLimit int
	Reason        Reason     // set when denied
	ResetAt       *time.Time // set for daily denials only
}

const windowDateLayout = "2006-01-02"

// Gate reads and updates quota counters. The daily window is a calendar day
// in the reference timezone; a counter whose window is not today counts as
// zero on read without being rewritten.
type Gate struct {
	repo          store.Repository
	dailyLimit    int
	lifetimeLimit int
	location      *time.Location
	clock         func() time.Time
}

// NewGate creates a quota gate with the given limits and reference timezone.
func NewGate(repo store.Repository, dailyLimit, lifetimeLimit int, location *time.Location) *Gate {
	return &Gate{
		repo:          repo,
		dailyLimit:    dailyLimit,
		lifetimeLimit: lifetimeLimit,
		location:      location,
		clock:         time.Now,
	}
}

// Check decides whether one more message from the user is allowed. It never
// writes; counting an accepted message is RecordAccepted's job, called only
// after routing succeeds.
func (g *Gate) Check(ctx context.Context, userID int64) (*Decision, error) {
	counter, err := g.repo.GetQuota(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get quota: %w", err)
	}
	if counter == nil {
		counter = &domain.QuotaCounter{UserID: userID}
	}

	now := g.clock().In(g.location)
	today := now.Format(windowDateLayout)

	daily := counter.DailyCount
	if counter.WindowDate != today {
		daily = 0
	}

	decision := &Decision{
		DailyCount:    daily,
		LifetimeCount: counter.LifetimeCount,
		DailyLimit:    g.dailyLimit,
		LifetimeLimit: g.lifetimeLimit,
	}

	if counter.LifetimeCount >= g.lifetimeLimit {
		decision.Reason = ReasonLifetime
		return decision, nil
	}
	if daily >= g.dailyLimit {
		decision.Reason = ReasonDaily
		reset := nextMidnight(now)
		decision.ResetAt = &reset
		return decision, nil
	}

	decision.Allowed = true
	return decision, nil
}

// RecordAccepted counts one accepted message: lifetime always increments,
// daily increments within the current window or restarts at one on rollover.
func (g *Gate) RecordAccepted(ctx context.Context, userID int64) error {
	counter, err := g.repo.GetQuota(ctx, userID)
	if err != nil {
		return fmt.Errorf("get quota: %w", err)
	}
	if counter == nil {
		counter = &domain.QuotaCounter{UserID: userID}
	}

	today := g.clock().In(g.location).Format(windowDateLayout)

	if counter.WindowDate == today {
		counter.DailyCount++
	} else {
		counter.DailyCount = 1
		counter.WindowDate = today
	}
	counter.LifetimeCount++

	if err := g.repo.UpsertQuota(ctx, counter); err != nil {
		return fmt.Errorf("record accepted message: %w", err)
	}
	return nil
}

// nextMidnight returns the start of the next calendar day in now's location.
func nextMidnight(now time.Time) time.Time {
	next := now.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, now.Location())
}
