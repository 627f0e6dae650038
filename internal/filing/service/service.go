// Package service is the application layer over the filing evaluator: it
// resolves the business, applies the caller's session and records telemetry.
// The evaluator and eligibility calculators stay pure.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bizfilings/internal/authz"
	"bizfilings/internal/business"
	"bizfilings/internal/filing"
	"bizfilings/internal/filing/eligibility"
	"bizfilings/internal/platform/metrics"
	"bizfilings/internal/platform/tracing"
	"bizfilings/internal/session"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

// Service answers "what can this caller file against this business".
type Service struct {
	source    business.SnapshotSource
	evaluator *filing.Evaluator
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(source business.SnapshotSource, evaluator *filing.Evaluator, opts ...Option) *Service {
	s := &Service{
		source:    source,
		evaluator: evaluator,
		tracer:    tracing.Tracer(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OptionsResult is the evaluated filing menu for one business.
type OptionsResult struct {
	Business    *filing.EntitySnapshot
	Options     []filing.Option
	EvaluatedAt time.Time
}

// AgmExtensionReport is the AGM extension calculation for one business.
type AgmExtensionReport struct {
	Business  *filing.EntitySnapshot
	Extension eligibility.AgmExtensionResult
}

// RestorationReport covers restoration of a historical business and the
// follow-ups to a limited restoration.
type RestorationReport struct {
	Business         *filing.EntitySnapshot
	Restoration      eligibility.RestorationResult
	LimitedExtension eligibility.LimitedRestorationResult
}

// FilingOptions evaluates the filings the caller may start against a business.
func (s *Service) FilingOptions(ctx context.Context, sc *session.Context, identifier string) (*OptionsResult, error) {
	if sc == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	snap, err := s.snapshot(ctx, identifier)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	_, span := s.tracer.Start(ctx, "filing.evaluate", trace.WithAttributes(
		attribute.String("business.legal_type", string(snap.LegalType)),
		attribute.String("business.state", string(snap.State)),
		attribute.Int("session.actions", sc.Actions.Len()),
	))
	start := time.Now()
	options := s.evaluator.Evaluate(*snap, sc.Actions, now)
	s.metrics.ObserveEvaluation(time.Since(start), len(options))
	span.SetAttributes(attribute.Int("filing.options", len(options)))
	span.End()

	s.logger.DebugContext(ctx, "filing options evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"business", snap.Identifier,
		"account_type", sc.AccountType,
		"options", len(options),
	)
	return &OptionsResult{Business: snap, Options: options, EvaluatedAt: now}, nil
}

// AgmExtension calculates the AGM extension a BC company could request today.
func (s *Service) AgmExtension(ctx context.Context, sc *session.Context, identifier string) (*AgmExtensionReport, error) {
	if err := requireAction(sc, authz.ActionRequestAgmExtension); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !snap.LegalType.IsBCCompany() {
		return nil, dErrors.New(dErrors.CodeValidation, "AGM extensions apply to BC companies only")
	}

	result := eligibility.EvaluateAgmExtension(filing.AgmExtensionInput(*snap, requestcontext.Now(ctx)))
	return &AgmExtensionReport{Business: snap, Extension: result}, nil
}

// Restoration calculates restoration eligibility for a business.
func (s *Service) Restoration(ctx context.Context, sc *session.Context, identifier string) (*RestorationReport, error) {
	if err := requireAction(sc, authz.ActionRestoreCompany); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, identifier)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	return &RestorationReport{
		Business:         snap,
		Restoration:      eligibility.EvaluateRestoration(filing.RestorationInput(*snap, now)),
		LimitedExtension: eligibility.EvaluateLimitedRestorationExtension(filing.LimitedRestorationInput(*snap, now)),
	}, nil
}

func (s *Service) snapshot(ctx context.Context, raw string) (*filing.EntitySnapshot, error) {
	identifier, err := business.NormalizeIdentifier(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid business identifier")
	}

	ctx, span := s.tracer.Start(ctx, "business.snapshot", trace.WithAttributes(
		attribute.String("business.identifier", identifier),
	))
	defer span.End()

	snap, err := s.source.Snapshot(ctx, identifier)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		span.SetStatus(codes.Error, "not found")
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "business not found")
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot fetch failed")
		s.logger.ErrorContext(ctx, "failed to load business snapshot",
			"request_id", requestcontext.RequestID(ctx),
			"business", identifier,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "business registry unavailable")
	}
	return snap, nil
}

func requireAction(sc *session.Context, action authz.Action) error {
	if sc == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !sc.Actions.Has(action) {
		return dErrors.New(dErrors.CodeForbidden, "missing permission "+action.String())
	}
	return nil
}
