// Package middleware provides HTTP middleware for the bot API.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// TokenHeader carries the shared webhook secret set by the platform.
const TokenHeader = "X-Webhook-Token"

// WebhookAuth returns middleware that rejects requests whose secret header
// does not match the configured token. An empty token disables the check,
// which is only acceptable for local development.
func WebhookAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				got := r.Header.Get(TokenHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					http.Error(w, `{"error":"invalid webhook token"}`, http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
