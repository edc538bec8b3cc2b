package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authServer(token string) *httptest.Server {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(WebhookAuth(token)(next))
}

func doRequest(t *testing.T, url, header string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if header != "" {
		req.Header.Set(TokenHeader, header)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestWebhookAuth(t *testing.T) {
	srv := authServer("secret")
	defer srv.Close()

	if got := doRequest(t, srv.URL, "secret"); got != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", got)
	}
	if got := doRequest(t, srv.URL, "wrong"); got != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", got)
	}
	if got := doRequest(t, srv.URL, ""); got != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", got)
	}
}

func TestWebhookAuthDisabledWithEmptyToken(t *testing.T) {
	srv := authServer("")
	defer srv.Close()

	if got := doRequest(t, srv.URL, ""); got != http.StatusOK {
		t.Errorf("status with auth disabled = %d, want 200", got)
	}
}
