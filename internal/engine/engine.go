// Package engine runs the inbound pipeline: quota gate, activity renewal,
// router dispatch, and the mapping from the failure taxonomy to response
// classes. Nothing below it talks to the transport; nothing above it talks
// to storage.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/quota"
	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
	"github.com/alexandre-bismuth/PickYourCourses/internal/session"
)

// Engine is the conversation engine facade handed to the transport layer.
type Engine struct {
	gate     *quota.Gate
	sessions *session.Store
	router   *router.Router
}

// New creates an engine over its collaborators.
func New(gate *quota.Gate, sessions *session.Store, r *router.Router) *Engine {
	return &Engine{gate: gate, sessions: sessions, router: r}
}

// HandleEvent processes one inbound event end to end and always produces a
// response. Failures never escape as raw errors: they are logged and mapped
// to a response class the transport can deliver.
func (e *Engine) HandleEvent(ctx context.Context, event domain.Event) *router.Response {
	decision, err := e.gate.Check(ctx, event.UserID)
	if err != nil {
		slog.Error("quota check failed", "user_id", event.UserID, "error", err)
		return unavailable()
	}
	if !decision.Allowed {
		return rateLimited(decision)
	}

	resp, err := e.router.Dispatch(ctx, event)
	if err != nil {
		return e.degrade(ctx, event, err)
	}

	// The message was routed; count it. A failure here must not lose the
	// response the user is owed.
	if err := e.gate.RecordAccepted(ctx, event.UserID); err != nil {
		slog.Error("failed to record accepted message", "user_id", event.UserID, "error", err)
	}

	return resp
}

// degrade maps dispatch failures per the propagation policy: invariant
// violations and missing records send the user back to the root state with a
// generic notice; anything else is a storage-level fault surfaced as
// temporarily unavailable.
func (e *Engine) degrade(ctx context.Context, event domain.Event, err error) *router.Response {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoDraft):
		slog.Warn("dispatch degraded to root",
			"user_id", event.UserID,
			"kind", event.Kind,
			"error", err)
		if clearErr := e.sessions.Clear(ctx, event.UserID); clearErr != nil {
			slog.Error("failed to clear session during degrade", "user_id", event.UserID, "error", clearErr)
		}
		return &router.Response{
			Class: router.ClassSuccess,
			Text:  "Something went out of sync, so I brought you back to the start. Send /start to continue.",
		}
	}

	slog.Error("dispatch failed", "user_id", event.UserID, "kind", event.Kind, "error", err)
	return unavailable()
}

func unavailable() *router.Response {
	return &router.Response{
		Class: router.ClassUnavailable,
		Text:  "I'm temporarily unavailable. Please try again in a moment.",
	}
}

func rateLimited(decision *quota.Decision) *router.Response {
	text := "You've reached your lifetime message limit for this bot."
	if decision.Reason == quota.ReasonDaily && decision.ResetAt != nil {
		text = fmt.Sprintf("You've reached your daily limit of %d messages. Quota resets at %s.",
			decision.DailyLimit, decision.ResetAt.Format("15:04 MST"))
	}
	return &router.Response{Class: router.ClassRateLimited, Text: text}
}
