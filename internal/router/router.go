package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/draft"
	"github.com/alexandre-bismuth/PickYourCourses/internal/session"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

// coursePageSize and reviewPageSize bound one keyboard page.
const (
	coursePageSize = 5
	reviewPageSize = 3
)

// request carries one inbound event plus the user's session snapshot through
// a handler. Session is nil when the user has no live session.
type request struct {
	ctx     context.Context
	event   domain.Event
	session *domain.Session
}

// userID is a convenience accessor.
func (r *request) userID() int64 { return r.event.UserID }

// state returns the current state, StateRoot when no session exists.
func (r *request) state() domain.State {
	if r.session == nil {
		return domain.StateRoot
	}
	return r.session.State
}

// sessionContext returns the current context payload, zero when absent.
func (r *request) sessionContext() domain.SessionContext {
	if r.session == nil {
		return domain.SessionContext{}
	}
	return r.session.Context
}

type commandHandler func(req *request) (*Response, error)

// Router matches inbound events against the command table, the ordered
// callback bindings, or the free-text rules for the current state, and runs
// the bound step handler.
type Router struct {
	sessions   *session.Store
	supervisor *session.Supervisor
	drafts     *draft.Editor
	repo       store.Repository

	commands  map[string]commandHandler
	callbacks []callbackBinding
}

// New creates a router with the full handler surface registered.
func New(sessions *session.Store, supervisor *session.Supervisor, drafts *draft.Editor, repo store.Repository) *Router {
	r := &Router{
		sessions:   sessions,
		supervisor: supervisor,
		drafts:     drafts,
		repo:       repo,
		commands:   make(map[string]commandHandler),
	}
	r.register()
	return r
}

// register wires the dispatch tables. Callback bindings are order-sensitive:
// a paginated or otherwise more specific variant must precede the binding it
// shares a prefix with, since nothing else disambiguates the grammar.
func (r *Router) register() {
	r.commands["start"] = r.handleStart
	r.commands["help"] = r.handleHelp

	r.bind("menu_browse", matchExact("menu_browse"), r.handleBrowseCategories)
	r.bind("browse_page", matchPaginated("browse_"), r.handleBrowsePage)
	r.bind("browse", matchPrefix("browse_"), r.handleBrowse)
	r.bind("course", matchPrefix("course_"), r.handleCourse)
	r.bind("reviews_page", matchPaginated("reviews_"), r.handleReviewsPage)
	r.bind("review_begin", matchPrefix("review_"), r.handleReviewBegin)
	r.bind("rating", matchRating("rating_"), r.handleDraftRating)
	r.bind("text_skip", matchExact("text_skip"), r.handleTextSkip)
	r.bind("anon_toggle", matchExact("anon_toggle"), r.handleAnonToggle)
	r.bind("submit", matchExact("submit"), r.handleSubmit)
	r.bind("cancel", matchExact("cancel"), r.handleCancel)
	r.bind("menu", matchExact("menu"), r.handleMenu)
	r.bind("my_reviews_page", matchExactPaginated("my_reviews"), r.handleMyReviewsPage)
	r.bind("my_reviews", matchExact("my_reviews"), r.handleMyReviews)
	r.bind("set_rating", matchIDRating("set_rating_"), r.handleEditRating)
	// edit_text_ shares the edit_ prefix; it must be tried first or the
	// generic binding would swallow it with review ID "text_…".
	r.bind("edit_text", matchPrefix("edit_text_"), r.handleEditText)
	r.bind("edit", matchPrefix("edit_"), r.handleEditBegin)
	r.bind("confirm_delete", matchPrefix("confirm_delete_"), r.handleConfirmDelete)
	r.bind("delete", matchPrefix("delete_"), r.handleDelete)
	r.bind("vote", matchDirectionID("vote_"), r.handleVote)
}

func (r *Router) bind(name string, match matchFunc, handle func(req *request, args []string) (*Response, error)) {
	r.callbacks = append(r.callbacks, callbackBinding{name: name, match: match, handle: handle})
}

// Dispatch routes one inbound event. The session's activity is renewed
// before the handler runs, whatever branch of the workflow the event belongs
// to. Returned errors are programming-level or storage-level; user-level
// failures come back as non-success response classes.
func (r *Router) Dispatch(ctx context.Context, event domain.Event) (*Response, error) {
	snapshot, err := r.sessions.Get(ctx, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if snapshot != nil {
		if err := r.sessions.Renew(ctx, event.UserID); err != nil {
			return nil, fmt.Errorf("renew activity: %w", err)
		}
	}
	r.supervisor.Renew(event.UserID)

	req := &request{ctx: ctx, event: event, session: snapshot}

	switch event.Kind {
	case domain.EventCommand:
		handler, ok := r.commands[event.Command]
		if !ok {
			return unknown("Unknown command. Send /help to see what I understand."), nil
		}
		return handler(req)

	case domain.EventCallback:
		for _, binding := range r.callbacks {
			args, ok := binding.match(event.Callback)
			if !ok {
				continue
			}
			resp, err := binding.handle(req, args)
			if err != nil {
				return nil, fmt.Errorf("callback %s: %w", binding.name, err)
			}
			return resp, nil
		}
		slog.Warn("unmatched callback token", "user_id", event.UserID, "token", event.Callback)
		return unknown("That button is no longer active."), nil

	case domain.EventText:
		return r.dispatchText(req)
	}

	return unknown("I did not understand that."), nil
}

// dispatchText interprets free text against the current state. Text is only
// meaningful in the handful of states that are waiting for it.
func (r *Router) dispatchText(req *request) (*Response, error) {
	switch req.state() {
	case domain.StateDrafting:
		return r.handleDraftText(req)
	case domain.StateCollectingName:
		return r.handleProfileName(req)
	case domain.StateCollectingTag:
		return r.handleProfileTag(req)
	case domain.StateEditingReviewText:
		return r.handleEditTextInput(req)
	}
	return unknown("I was not expecting a message here. Use the buttons, or send /start to begin again."), nil
}

// transition validates the state change against the allow-list and applies
// it. An out-of-table transition is an invariant violation surfaced as
// domain.ErrInvalidTransition for the engine to degrade to root.
func (r *Router) transition(req *request, to domain.State, sctx domain.SessionContext) error {
	from := req.state()
	if !domain.IsValidTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	if err := r.sessions.Set(req.ctx, req.userID(), to, sctx); err != nil {
		return err
	}
	return nil
}

// reset clears all conversation state for the user: session, draft, timers.
// This is the cancellation/completion primitive; it needs no coordination
// with in-flight commits.
func (r *Router) reset(req *request) error {
	r.drafts.Discard(req.userID())
	r.supervisor.Cancel(req.userID())
	if err := r.sessions.Clear(req.ctx, req.userID()); err != nil {
		return err
	}
	req.session = nil
	return nil
}
