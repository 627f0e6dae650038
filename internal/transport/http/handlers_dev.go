package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	jwttoken "bizfilings/internal/jwt_token"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/httputil"
)

const maxDevCredentialLifetime = 12 * time.Hour

// CredentialIssuer mints credentials for local development.
type CredentialIssuer interface {
	Issue(req jwttoken.IssueRequest) (string, error)
}

// DevHandler mints signed credentials so the API can be exercised without an
// identity provider. Only mounted when DEV_ISSUER=true.
type DevHandler struct {
	issuer CredentialIssuer
	logger *slog.Logger
}

func NewDevHandler(issuer CredentialIssuer, logger *slog.Logger) *DevHandler {
	return &DevHandler{issuer: issuer, logger: logger}
}

func (h *DevHandler) Register(r chi.Router) {
	r.Post("/dev/credentials", h.HandleIssue)
}

type issueCredentialRequest struct {
	Subject          string   `json:"subject"`
	Username         string   `json:"username"`
	AccountID        string   `json:"account_id"`
	Roles            []string `json:"roles"`
	ExpiresInSeconds int      `json:"expires_in_seconds"`
}

type issueCredentialResponse struct {
	Credential string `json:"credential"`
}

// HandleIssue handles POST /dev/credentials.
func (h *DevHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[issueCredentialRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.Subject == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "subject is required"))
		return
	}

	lifetime := time.Duration(req.ExpiresInSeconds) * time.Second
	if lifetime <= 0 || lifetime > maxDevCredentialLifetime {
		lifetime = time.Hour
	}

	credential, err := h.issuer.Issue(jwttoken.IssueRequest{
		Subject:   req.Subject,
		Username:  req.Username,
		AccountID: req.AccountID,
		Roles:     req.Roles,
		ExpiresIn: lifetime,
	})
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue credential"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issueCredentialResponse{Credential: credential})
}
