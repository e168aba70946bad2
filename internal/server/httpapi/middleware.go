package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/dmitrijs2005/authvault/internal/server/auth"
	"github.com/google/uuid"
)

type ctxKey string

const (
	accountIDKey ctxKey = "accountID"
	emailKey     ctxKey = "email"
	requestIDKey ctxKey = "requestID"
)

// AccountID returns the authenticated account id stored by the authenticate
// middleware, or false when the request did not pass through it.
func AccountID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}

// RequestID returns the id assigned to the request by the requestID
// middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID tags every request with a unique id, echoed in the response and
// attached to server-side log lines.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverer turns a handler panic into a 500 instead of tearing down the
// connection without a response.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "panic in handler", "request_id", RequestID(r.Context()), "panic", p)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// extractBearerToken pulls the token out of the Authorization header. A
// missing header, a non-Bearer scheme and an empty value all report the same
// "no token" outcome.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != common.BearerSchemePrefix || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// authenticate gates protected routes: no token rejects with 401, a token
// that fails verification (bad signature or expired) with 403. On success
// the account identity is attached to the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusForbidden, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, claims.AccountID)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
