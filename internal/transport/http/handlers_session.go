package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bizfilings/internal/authz"
	"bizfilings/internal/platform/middleware"
	"bizfilings/internal/session"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/httputil"
	"bizfilings/pkg/requestcontext"
)

// SessionService defines the session operations the transport needs.
type SessionService interface {
	middleware.SessionService
	Begin(ctx context.Context, credential string, sel session.AccountSelection) (*session.Context, error)
	Refresh(ctx context.Context, key, credential string) (*session.Context, error)
	End(ctx context.Context, key string) error
}

// SessionHandler exposes stored sessions and the caller's authorizations.
type SessionHandler struct {
	sessions SessionService
	logger   *slog.Logger
}

func NewSessionHandler(sessions SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// RegisterPublic mounts endpoints that authenticate with a credential in the body.
func (h *SessionHandler) RegisterPublic(r chi.Router) {
	r.Post("/sessions", h.HandleBegin)
	r.Put("/sessions/{key}/credential", h.HandleRefresh)
	r.Delete("/sessions/{key}", h.HandleEnd)
}

// Register mounts endpoints that require a resolved session.
func (h *SessionHandler) Register(r chi.Router) {
	r.Get("/me/authorizations", h.HandleAuthorizations)
}

// HandleBegin handles POST /v1/sessions.
func (h *SessionHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[beginSessionRequest](w, r, h.logger)
	if !ok {
		return
	}
	sel, err := req.selection()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sc, err := h.sessions.Begin(ctx, req.Credential, sel)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAuthorizations(sc))
}

// HandleRefresh handles PUT /v1/sessions/{key}/credential.
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[refreshSessionRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Credential == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "credential is required"))
		return
	}

	sc, err := h.sessions.Refresh(r.Context(), chi.URLParam(r, "key"), req.Credential)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuthorizations(sc))
}

// HandleEnd handles DELETE /v1/sessions/{key}.
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")
	if err := h.sessions.End(ctx, key); err != nil {
		h.logger.ErrorContext(ctx, "failed to end session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAuthorizations handles GET /v1/me/authorizations.
func (h *SessionHandler) HandleAuthorizations(w http.ResponseWriter, r *http.Request) {
	sc, ok := session.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuthorizations(sc))
}

type beginSessionRequest struct {
	Credential  string `json:"credential"`
	AccountID   string `json:"account_id"`
	AccountType string `json:"account_type"`
}

func (r beginSessionRequest) selection() (session.AccountSelection, error) {
	if r.Credential == "" {
		return session.AccountSelection{}, dErrors.New(dErrors.CodeValidation, "credential is required")
	}
	accountType, err := authz.ParseAccountType(r.AccountType)
	if err != nil {
		return session.AccountSelection{}, dErrors.Wrap(err, dErrors.CodeValidation, "unknown account type")
	}
	return session.AccountSelection{ID: r.AccountID, Type: accountType}, nil
}

type refreshSessionRequest struct {
	Credential string `json:"credential"`
}
