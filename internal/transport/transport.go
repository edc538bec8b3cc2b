// Package transport is the boundary with the messaging platform: it decodes
// inbound events, hands them to the conversation engine, and delivers
// rendered responses back out. Rendering and message formatting beyond the
// router's payload are the platform's concern, not ours.
package transport

import (
	"context"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
)

// Handler processes one inbound event and always yields a response.
// Implemented by the engine.
type Handler interface {
	HandleEvent(ctx context.Context, event domain.Event) *router.Response
}

// Sender delivers an outbound response to a user through the platform.
type Sender interface {
	Send(ctx context.Context, userID int64, resp *router.Response) error
}

// NopSender discards outbound messages. Used when no delivery channel is
// configured, e.g. in tests or webhook-reply-only deployments.
type NopSender struct{}

// Send implements Sender.
func (NopSender) Send(context.Context, int64, *router.Response) error { return nil }

// MultiSender fans a message out to several transports. The first failure is
// returned after every sender has been tried.
type MultiSender []Sender

// Send implements Sender.
func (m MultiSender) Send(ctx context.Context, userID int64, resp *router.Response) error {
	var firstErr error
	for _, s := range m {
		if err := s.Send(ctx, userID, resp); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
