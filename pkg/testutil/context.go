package testutil

import (
	"context"
	"net/http"
	"time"

	"bizfilings/internal/authz"
	jwttoken "bizfilings/internal/jwt_token"
	"bizfilings/internal/session"
	"bizfilings/pkg/requestcontext"
)

// NewSession builds a session context the way the session middleware would,
// without needing a credential.
func NewSession(accountType authz.AccountType, roles ...authz.Role) *session.Context {
	return &session.Context{
		Claims:      &jwttoken.RoleClaims{Subject: "test-user", Roles: roles},
		AccountID:   "1",
		AccountType: accountType,
		Actions:     authz.MapToActions(roles, accountType),
	}
}

// WithSession attaches a session context to the request.
func WithSession(req *http.Request, sc *session.Context) *http.Request {
	return req.WithContext(session.WithContext(req.Context(), sc))
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), key, value))
}
