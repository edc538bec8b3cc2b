package session

import (
	"context"
	"testing"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

const testWindow = 30 * time.Minute

func newTestStore(t *testing.T) (*Store, *store.MemoryStore, *time.Time) {
	t.Helper()
	repo := store.NewMemory()
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	s := NewStore(repo, testWindow)
	s.clock = func() time.Time { return now }
	return s, repo, &now
}

func TestStoreGetAbsent(t *testing.T) {
	s, _, _ := newTestStore(t)

	session, err := s.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session != nil {
		t.Errorf("Get with no session = %+v, want nil", session)
	}
}

func TestStoreSetAndGet(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	sctx := domain.SessionContext{Category: "MATH", Page: 2}
	if err := s.Set(ctx, 1, domain.StateBrowsing, sctx); err != nil {
		t.Fatalf("Set: %v", err)
	}

	session, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session == nil {
		t.Fatal("Get after Set returned nil")
	}
	if session.State != domain.StateBrowsing {
		t.Errorf("state = %s, want %s", session.State, domain.StateBrowsing)
	}
	if session.Context != sctx {
		t.Errorf("context = %+v, want %+v", session.Context, sctx)
	}
}

func TestStoreLazyExpiry(t *testing.T) {
	s, repo, now := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, 1, domain.StateDrafting, domain.SessionContext{CourseID: "math_101"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Just inside the window: still live.
	*now = now.Add(testWindow)
	if session, _ := s.Get(ctx, 1); session == nil {
		t.Fatal("session at the window boundary reported absent")
	}

	// Past the window: absent, and the row is deleted on read.
	*now = now.Add(time.Second)
	session, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session != nil {
		t.Fatalf("expired session still returned: %+v", session)
	}
	raw, err := repo.GetSession(ctx, 1)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if raw != nil {
		t.Error("expired session row was not deleted on read")
	}
}

func TestStoreFreshSessionAfterExpiry(t *testing.T) {
	s, _, now := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, 1, domain.StateDrafting, domain.SessionContext{CourseID: "math_101"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	*now = now.Add(testWindow + time.Minute)
	if session, _ := s.Get(ctx, 1); session != nil {
		t.Fatal("expired session still returned")
	}

	// The next interaction starts over at the root with no leftover context.
	if err := s.Set(ctx, 1, domain.StateRoot, domain.SessionContext{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	session, _ := s.Get(ctx, 1)
	if session == nil {
		t.Fatal("fresh session absent")
	}
	if session.State != domain.StateRoot || session.Context != (domain.SessionContext{}) {
		t.Errorf("fresh session = %s %+v, want ROOT with empty context", session.State, session.Context)
	}
}

func TestStoreRenew(t *testing.T) {
	s, _, now := newTestStore(t)
	ctx := context.Background()

	sctx := domain.SessionContext{ReviewID: "r1"}
	if err := s.Set(ctx, 1, domain.StateEditingReview, sctx); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Renewing 20 minutes in keeps the session alive 20 minutes past where
	// it would otherwise have expired, without touching state or context.
	*now = now.Add(20 * time.Minute)
	if err := s.Renew(ctx, 1); err != nil {
		t.Fatalf("Renew: %v", err)
	}
	*now = now.Add(testWindow - time.Minute)
	session, _ := s.Get(ctx, 1)
	if session == nil {
		t.Fatal("renewed session expired early")
	}
	if session.State != domain.StateEditingReview || session.Context != sctx {
		t.Errorf("Renew changed session to %s %+v", session.State, session.Context)
	}
}

func TestStoreClear(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, 1, domain.StateBrowsing, domain.SessionContext{Category: "CS"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if session, _ := s.Get(ctx, 1); session != nil {
		t.Error("session survived Clear")
	}
}
