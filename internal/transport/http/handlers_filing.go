package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bizfilings/internal/filing/service"
	"bizfilings/internal/session"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/httputil"
	"bizfilings/pkg/requestcontext"
)

// FilingService defines the filing queries the transport needs.
type FilingService interface {
	FilingOptions(ctx context.Context, sc *session.Context, identifier string) (*service.OptionsResult, error)
	AgmExtension(ctx context.Context, sc *session.Context, identifier string) (*service.AgmExtensionReport, error)
	Restoration(ctx context.Context, sc *session.Context, identifier string) (*service.RestorationReport, error)
}

// FilingHandler exposes per-business filing queries.
type FilingHandler struct {
	filings FilingService
	logger  *slog.Logger
}

func NewFilingHandler(filings FilingService, logger *slog.Logger) *FilingHandler {
	return &FilingHandler{filings: filings, logger: logger}
}

// Register mounts filing endpoints on the router.
func (h *FilingHandler) Register(r chi.Router) {
	r.Route("/businesses/{identifier}", func(r chi.Router) {
		r.Get("/filing-options", h.HandleFilingOptions)
		r.Get("/agm-extension", h.HandleAgmExtension)
		r.Get("/restoration", h.HandleRestoration)
	})
}

// HandleFilingOptions handles GET /v1/businesses/{identifier}/filing-options.
func (h *FilingHandler) HandleFilingOptions(w http.ResponseWriter, r *http.Request) {
	sc, identifier, ok := h.params(w, r)
	if !ok {
		return
	}
	result, err := h.filings.FilingOptions(r.Context(), sc, identifier)
	if err != nil {
		h.fail(w, r, "filing options", identifier, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFilingOptions(result))
}

// HandleAgmExtension handles GET /v1/businesses/{identifier}/agm-extension.
func (h *FilingHandler) HandleAgmExtension(w http.ResponseWriter, r *http.Request) {
	sc, identifier, ok := h.params(w, r)
	if !ok {
		return
	}
	report, err := h.filings.AgmExtension(r.Context(), sc, identifier)
	if err != nil {
		h.fail(w, r, "agm extension", identifier, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, agmExtensionResponse{
		Identifier:         report.Business.Identifier,
		AgmExtensionResult: report.Extension,
	})
}

// HandleRestoration handles GET /v1/businesses/{identifier}/restoration.
func (h *FilingHandler) HandleRestoration(w http.ResponseWriter, r *http.Request) {
	sc, identifier, ok := h.params(w, r)
	if !ok {
		return
	}
	report, err := h.filings.Restoration(r.Context(), sc, identifier)
	if err != nil {
		h.fail(w, r, "restoration", identifier, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, restorationResponse{
		Identifier:         report.Business.Identifier,
		Restoration:        report.Restoration,
		LimitedRestoration: report.LimitedExtension,
	})
}

func (h *FilingHandler) params(w http.ResponseWriter, r *http.Request) (*session.Context, string, bool) {
	sc, ok := session.FromContext(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return nil, "", false
	}
	return sc, chi.URLParam(r, "identifier"), true
}

func (h *FilingHandler) fail(w http.ResponseWriter, r *http.Request, query, identifier string, err error) {
	ctx := r.Context()
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"query", query,
		"business", identifier,
		"error", err,
	}
	if dErrors.HTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "filing query failed", attrs...)
	} else {
		h.logger.InfoContext(ctx, "filing query rejected", attrs...)
	}
	httputil.WriteError(w, err)
}
