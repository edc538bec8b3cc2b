package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/draft"
	"github.com/alexandre-bismuth/PickYourCourses/internal/quota"
	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
	"github.com/alexandre-bismuth/PickYourCourses/internal/session"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

func newTestEngine(t *testing.T, dailyLimit, lifetimeLimit int) (*Engine, *store.MemoryStore) {
	t.Helper()
	repo := store.NewMemory()

	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}

	sessions := session.NewStore(repo, 30*time.Minute)
	supervisor := session.NewSupervisor(sessions, 5*time.Minute)
	drafts := draft.NewEditor(repo)
	gate := quota.NewGate(repo, dailyLimit, lifetimeLimit, loc)
	r := router.New(sessions, supervisor, drafts, repo)

	courses := []*domain.Course{
		{ID: "math_101", Code: "MATH101", Name: "Calculus I", Category: "MATH"},
	}
	if err := repo.SeedCourses(context.Background(), courses); err != nil {
		t.Fatalf("SeedCourses: %v", err)
	}
	now := time.Now()
	profile := &domain.UserProfile{UserID: 1, DisplayName: "Alex", Tag: "X2027", CreatedAt: now, UpdatedAt: now}
	if err := repo.UpsertProfile(context.Background(), profile); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	return New(gate, sessions, r), repo
}

func handle(t *testing.T, e *Engine, event domain.Event) *router.Response {
	t.Helper()
	resp := e.HandleEvent(context.Background(), event)
	if resp == nil {
		t.Fatalf("HandleEvent(%+v) returned nil", event)
	}
	return resp
}

func cb(userID int64, token string) domain.Event {
	return domain.Event{UserID: userID, Kind: domain.EventCallback, Callback: token}
}

func TestEngineEndToEndReviewFlow(t *testing.T) {
	e, repo := newTestEngine(t, 100, 3000)
	ctx := context.Background()

	steps := []domain.Event{
		{UserID: 1, Kind: domain.EventCommand, Command: "start"},
		cb(1, "menu_browse"),
		cb(1, "browse_MATH"),
		cb(1, "course_math_101"),
		cb(1, "review_math_101"),
		cb(1, "rating_overall_4"),
		cb(1, "rating_quality_4"),
		cb(1, "rating_difficulty_3"),
		{UserID: 1, Kind: domain.EventText, Text: "ok"},
		cb(1, "submit"),
	}
	for _, event := range steps {
		resp := handle(t, e, event)
		if resp.Class != router.ClassSuccess {
			t.Fatalf("step %+v: class = %s: %s", event, resp.Class, resp.Text)
		}
	}

	review, err := repo.GetUserReviewForCourse(ctx, 1, "math_101")
	if err != nil || review == nil {
		t.Fatalf("review after flow = %+v, %v", review, err)
	}
	if review.Overall != 4 || review.Quality != 4 || review.Difficulty != 3 || review.Text != "ok" {
		t.Errorf("review = %+v", review)
	}

	// Every accepted event was counted.
	counter, _ := repo.GetQuota(ctx, 1)
	if counter == nil || counter.LifetimeCount != len(steps) {
		t.Errorf("lifetime count = %+v, want %d", counter, len(steps))
	}
}

func TestEngineDailyRateLimit(t *testing.T) {
	e, repo := newTestEngine(t, 3, 3000)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp := handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "help"})
		if resp.Class != router.ClassSuccess {
			t.Fatalf("event #%d class = %s", i, resp.Class)
		}
	}

	resp := handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "help"})
	if resp.Class != router.ClassRateLimited {
		t.Fatalf("over-limit class = %s, want %s", resp.Class, router.ClassRateLimited)
	}
	if !strings.Contains(resp.Text, "daily limit") {
		t.Errorf("rate limit text = %q, want mention of the daily limit", resp.Text)
	}

	// Denied events are not counted against any quota.
	counter, _ := repo.GetQuota(ctx, 1)
	if counter.LifetimeCount != 3 || counter.DailyCount != 3 {
		t.Errorf("counts after denial = %d/%d, want 3/3", counter.DailyCount, counter.LifetimeCount)
	}
}

func TestEngineLifetimeRateLimit(t *testing.T) {
	e, _ := newTestEngine(t, 100, 2)

	for i := 0; i < 2; i++ {
		handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "help"})
	}

	resp := handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "help"})
	if resp.Class != router.ClassRateLimited {
		t.Fatalf("over-limit class = %s, want %s", resp.Class, router.ClassRateLimited)
	}
	if !strings.Contains(resp.Text, "lifetime") {
		t.Errorf("rate limit text = %q, want mention of the lifetime limit", resp.Text)
	}
}

func TestEngineDegradesMissingRecordToRoot(t *testing.T) {
	e, repo := newTestEngine(t, 100, 3000)
	ctx := context.Background()

	handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "start"})

	// A vote referencing a vanished review degrades to root rather than
	// surfacing an error.
	resp := handle(t, e, cb(1, "vote_up_ghost"))
	if resp.Class != router.ClassSuccess {
		t.Fatalf("degraded class = %s, want %s", resp.Class, router.ClassSuccess)
	}
	if !strings.Contains(resp.Text, "/start") {
		t.Errorf("degraded text = %q, want a pointer back to /start", resp.Text)
	}
	if s, _ := repo.GetSession(ctx, 1); s != nil {
		t.Errorf("session after degrade = %+v, want cleared", s)
	}
}

func TestEngineDegradesInvalidTransitionToRoot(t *testing.T) {
	e, repo := newTestEngine(t, 100, 3000)
	ctx := context.Background()

	handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "start"})

	// A rating tap with no draft in progress violates the workflow.
	resp := handle(t, e, cb(1, "rating_overall_4"))
	if resp.Class != router.ClassSuccess {
		t.Fatalf("degraded class = %s, want %s", resp.Class, router.ClassSuccess)
	}
	if s, _ := repo.GetSession(ctx, 1); s != nil {
		t.Errorf("session after degrade = %+v, want cleared", s)
	}
}

func TestEngineUnknownInputsAreCounted(t *testing.T) {
	e, repo := newTestEngine(t, 100, 3000)
	ctx := context.Background()

	resp := handle(t, e, domain.Event{UserID: 1, Kind: domain.EventCommand, Command: "frobnicate"})
	if resp.Class != router.ClassUnknown {
		t.Fatalf("class = %s, want %s", resp.Class, router.ClassUnknown)
	}

	// An unknown command still went through routing, so it counts.
	counter, _ := repo.GetQuota(ctx, 1)
	if counter == nil || counter.LifetimeCount != 1 {
		t.Errorf("counter = %+v, want lifetime 1", counter)
	}
}
