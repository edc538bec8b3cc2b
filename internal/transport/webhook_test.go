package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
	"github.com/go-chi/chi/v5"
)

// echoEngine records the last event and replies with a fixed response.
type echoEngine struct {
	last domain.Event
	resp *router.Response
}

func (e *echoEngine) HandleEvent(_ context.Context, event domain.Event) *router.Response {
	e.last = event
	return e.resp
}

func newWebhookServer(engine Handler) *httptest.Server {
	r := chi.NewRouter()
	NewWebhookHandler(engine).RegisterRoutes(r)
	return httptest.NewServer(r)
}

func TestWebhookDeliversEvent(t *testing.T) {
	engine := &echoEngine{resp: &router.Response{Class: router.ClassSuccess, Text: "hi"}}
	srv := newWebhookServer(engine)
	defer srv.Close()

	body := `{"user_id": 42, "kind": "command", "command": "start"}`
	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if engine.last.UserID != 42 || engine.last.Kind != domain.EventCommand || engine.last.Command != "start" {
		t.Errorf("delivered event = %+v", engine.last)
	}

	var got router.Response
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Class != router.ClassSuccess || got.Text != "hi" {
		t.Errorf("response = %+v", got)
	}
}

func TestWebhookRejectsBadPayloads(t *testing.T) {
	engine := &echoEngine{resp: &router.Response{Class: router.ClassSuccess}}
	srv := newWebhookServer(engine)
	defer srv.Close()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_id": `},
		{"missing user id", `{"kind": "text", "text": "hi"}`},
		{"unknown kind", `{"user_id": 1, "kind": "poke"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestMultiSenderTriesAllSenders(t *testing.T) {
	var delivered []string
	ok := senderFunc(func(context.Context, int64, *router.Response) error {
		delivered = append(delivered, "ok")
		return nil
	})
	failing := senderFunc(func(context.Context, int64, *router.Response) error {
		delivered = append(delivered, "fail")
		return context.DeadlineExceeded
	})

	m := MultiSender{failing, NopSender{}, ok}
	err := m.Send(context.Background(), 1, &router.Response{Class: router.ClassSuccess})
	if err != context.DeadlineExceeded {
		t.Errorf("Send = %v, want first sender's error", err)
	}
	if len(delivered) != 2 {
		t.Errorf("senders tried = %v, want both", delivered)
	}
}

func TestNopSenderDiscards(t *testing.T) {
	if err := (NopSender{}).Send(context.Background(), 1, &router.Response{Class: router.ClassSuccess}); err != nil {
		t.Errorf("NopSender.Send = %v, want nil", err)
	}
}

type senderFunc func(ctx context.Context, userID int64, resp *router.Response) error

func (f senderFunc) Send(ctx context.Context, userID int64, resp *router.Response) error {
	return f(ctx, userID, resp)
}
