package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Callback is invoked with the user ID when a deadline fires.
type Callback func(userID int64)

// TimeoutInfo describes a session's position relative to its deadlines,
// computed purely from the stored activity timestamp. It stays correct even
// when the in-process timers were lost to an instance restart.
type TimeoutInfo struct {
	UntilWarning time.Duration // <= 0 once the warning deadline has passed
	UntilExpiry  time.Duration // <= 0 once the session has expired
	Expired      bool
	NeedsWarning bool
}

type userTimers struct {
	warning *time.Timer
	expiry  *time.Timer
}

// Supervisor schedules per-user warning and expiry callbacks keyed off
// session activity. Timers are local to this process; the periodic sweep and
// Info cover sessions whose timers were lost.
type Supervisor struct {
	store       *Store
	warningLead time.Duration
	onWarning   Callback
	onExpiry    Callback
	clock       func() time.Time

	mu     sync.Mutex
	timers map[int64]*userTimers
}

// NewSupervisor creates a supervisor over the session store. The warning
// deadline fires warningLead before the inactivity window elapses.
func NewSupervisor(store *Store, warningLead time.Duration) *Supervisor {
	return &Supervisor{
		store:       store,
		warningLead: warningLead,
		clock:       time.Now,
		timers:      make(map[int64]*userTimers),
	}
}

// SetCallbacks installs the deadline callbacks. Must be called before any
// session is tracked; the delivery side is constructed after the supervisor,
// so the callbacks arrive late.
func (s *Supervisor) SetCallbacks(onWarning, onExpiry Callback) {
	s.onWarning = onWarning
	s.onExpiry = onExpiry
}

// Renew cancels and reschedules both deadlines for a user, measured from now.
// Called after every accepted event.
func (s *Supervisor) Renew(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(userID)

	window := s.store.Window()
	s.timers[userID] = &userTimers{
		warning: time.AfterFunc(window-s.warningLead, func() { s.fireWarning(userID) }),
		expiry:  time.AfterFunc(window, func() { s.fireExpiry(userID) }),
	}
}

// Cancel drops both deadlines for a user, e.g. on explicit completion.
func (s *Supervisor) Cancel(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(userID)
}

func (s *Supervisor) cancelLocked(userID int64) {
	if t, ok := s.timers[userID]; ok {
		t.warning.Stop()
		t.expiry.Stop()
		delete(s.timers, userID)
	}
}

// Info returns the user's timeout position, or nil when no session exists.
func (s *Supervisor) Info(ctx context.Context, userID int64) (*TimeoutInfo, error) {
	session, err := s.store.repo.GetSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get session for timeout info: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	now := s.clock()
	window := s.store.Window()
	untilExpiry := session.ExpiresAt(window).Sub(now)
	untilWarning := untilExpiry - s.warningLead

	return &TimeoutInfo{
		UntilWarning: untilWarning,
		UntilExpiry:  untilExpiry,
		Expired:      untilExpiry <= 0,
		NeedsWarning: untilExpiry > 0 && untilWarning <= 0,
	}, nil
}

// fireWarning re-checks stored activity before notifying: the timer may be
// stale if activity was renewed by another process instance.
func (s *Supervisor) fireWarning(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := s.Info(ctx, userID)
	if err != nil {
		slog.Error("timeout supervisor failed to check warning deadline", "user_id", userID, "error", err)
		return
	}
	if info == nil || info.Expired {
		return
	}
	if !info.NeedsWarning {
		// Renewed elsewhere; push the local timer out to the real deadline.
		s.mu.Lock()
		if t, ok := s.timers[userID]; ok {
			t.warning.Reset(info.UntilWarning)
		}
		s.mu.Unlock()
		return
	}

	if s.onWarning != nil {
		s.onWarning(userID)
	}
}

// fireExpiry clears the session and notifies, unless stored activity shows
// the session was renewed elsewhere.
func (s *Supervisor) fireExpiry(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := s.Info(ctx, userID)
	if err != nil {
		slog.Error("timeout supervisor failed to check expiry deadline", "user_id", userID, "error", err)
		return
	}
	if info == nil {
		s.Cancel(userID)
		return
	}
	if !info.Expired {
		s.mu.Lock()
		if t, ok := s.timers[userID]; ok {
			t.expiry.Reset(info.UntilExpiry)
		}
		s.mu.Unlock()
		return
	}

	if err := s.store.Clear(ctx, userID); err != nil {
		slog.Error("timeout supervisor failed to clear expired session", "user_id", userID, "error", err)
	}
	s.Cancel(userID)

	if s.onExpiry != nil {
		s.onExpiry(userID)
	}
}
