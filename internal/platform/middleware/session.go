package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"bizfilings/internal/authz"
	"bizfilings/internal/session"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/httputil"
	"bizfilings/pkg/requestcontext"
)

// Request headers naming the caller's account selection and stored session.
const (
	HeaderAccountID   = "Account-Id"
	HeaderAccountType = "Account-Type"
	HeaderSessionKey  = "Session-Key"
)

// SessionService is the part of session.Service the middleware needs.
type SessionService interface {
	Derive(ctx context.Context, credential string, sel session.AccountSelection) (*session.Context, error)
	Resume(ctx context.Context, key string) (*session.Context, error)
}

// RequireSession resolves the caller from a bearer credential (with optional
// account headers) or from a stored session key, and puts the resulting
// *session.Context on the request context. Requests with neither get 401.
func RequireSession(sessions SessionService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			sc, err := resolve(ctx, sessions, r)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithContext(ctx, sc)))
		})
	}
}

func resolve(ctx context.Context, sessions SessionService, r *http.Request) (*session.Context, error) {
	if credential, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		accountType, err := authz.ParseAccountType(r.Header.Get(HeaderAccountType))
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unknown account type")
		}
		return sessions.Derive(ctx, strings.TrimSpace(credential), session.AccountSelection{
			ID:   strings.TrimSpace(r.Header.Get(HeaderAccountID)),
			Type: accountType,
		})
	}
	if key := strings.TrimSpace(r.Header.Get(HeaderSessionKey)); key != "" {
		return sessions.Resume(ctx, key)
	}
	return nil, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header")
}
