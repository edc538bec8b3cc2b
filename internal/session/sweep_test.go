package session

import (
	"context"
	"testing"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

func TestSweepExpired(t *testing.T) {
	repo := store.NewMemory()
	ctx := context.Background()

	stale := &domain.Session{UserID: 1, State: domain.StateBrowsing, LastActivityAt: time.Now().Add(-time.Hour)}
	fresh := &domain.Session{UserID: 2, State: domain.StateRoot, LastActivityAt: time.Now()}
	for _, s := range []*domain.Session{stale, fresh} {
		if err := repo.UpsertSession(ctx, s); err != nil {
			t.Fatalf("UpsertSession: %v", err)
		}
	}

	st := NewStore(repo, testWindow)
	sup := NewSupervisor(st, testWarningLead)
	sup.Renew(1)

	var notified []int64
	sweepExpired(ctx, repo, sup, testWindow, func(userID int64) { notified = append(notified, userID) })

	if s, _ := repo.GetSession(ctx, 1); s != nil {
		t.Error("stale session survived the sweep")
	}
	if s, _ := repo.GetSession(ctx, 2); s == nil {
		t.Error("fresh session was swept")
	}
	if len(notified) != 1 || notified[0] != 1 {
		t.Errorf("expiry notices = %v, want [1]", notified)
	}
	sup.mu.Lock()
	_, tracked := sup.timers[1]
	sup.mu.Unlock()
	if tracked {
		t.Error("sweep left the user's timers registered")
	}
}

func TestSweepNoExpiredSessions(t *testing.T) {
	repo := store.NewMemory()
	ctx := context.Background()

	if err := repo.UpsertSession(ctx, &domain.Session{UserID: 1, State: domain.StateRoot, LastActivityAt: time.Now()}); err != nil {
		t.Fatalf("UpsertSession: %v", err)
	}

	var notified []int64
	sweepExpired(ctx, repo, nil, testWindow, func(userID int64) { notified = append(notified, userID) })

	if len(notified) != 0 {
		t.Errorf("expiry notices = %v, want none", notified)
	}
}
