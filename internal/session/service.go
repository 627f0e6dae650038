// Package session is the one place where a bearer credential becomes a
// caller identity. Everything past this boundary works with *Context and
// never touches the raw credential or the session store.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bizfilings/internal/authz"
	jwttoken "bizfilings/internal/jwt_token"
	"bizfilings/internal/platform/metrics"
	dErrors "bizfilings/pkg/domain-errors"
	"bizfilings/pkg/platform/middleware/metadata"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

const defaultTTL = 8 * time.Hour

// Decoder turns a credential into role claims.
type Decoder interface {
	Decode(credential string) (*jwttoken.RoleClaims, error)
}

// Service derives session contexts and manages stored sessions.
type Service struct {
	decoder Decoder
	store   Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	ttl     time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithStore(store Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTTL caps how long a stored session lives. Sessions never outlive
// their credential regardless of this value.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewService(decoder Decoder, opts ...Option) *Service {
	s := &Service{
		decoder: decoder,
		store:   NewInMemoryStore(),
		logger:  slog.New(slog.DiscardHandler),
		ttl:     defaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Derive decodes the credential and maps its roles to actions for the
// selected account. Nothing is persisted. An empty account type is BASIC.
func (s *Service) Derive(ctx context.Context, credential string, sel AccountSelection) (*Context, error) {
	claims, err := s.decoder.Decode(credential)
	if err != nil {
		s.metrics.IncrementCredentialOutcome(outcomeOf(err))
		s.logger.WarnContext(ctx, "credential rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, translateDecodeError(err)
	}
	s.metrics.IncrementCredentialOutcome("ok")

	accountType := sel.Type
	if accountType == "" {
		accountType = authz.AccountTypeBasic
	}
	accountID := sel.ID
	if accountID == "" {
		accountID = claims.AccountID
	}

	return &Context{
		Claims:      claims,
		AccountID:   accountID,
		AccountType: accountType,
		Actions:     authz.MapToActions(claims.Roles, accountType),
	}, nil
}

// Begin derives a session context and persists the credential and account
// selection under a new key.
func (s *Service) Begin(ctx context.Context, credential string, sel AccountSelection) (*Context, error) {
	sc, err := s.Derive(ctx, credential, sel)
	if err != nil {
		return nil, err
	}

	client := metadata.FromContext(ctx)
	rec := &Record{
		Key:         uuid.NewString(),
		Credential:  credential,
		AccountID:   sc.AccountID,
		AccountType: sc.AccountType,
		ClientIP:    client.IP,
		Device:      client.Device,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, rec, s.lifetime(ctx, sc.Claims)); err != nil {
		s.metrics.IncrementSessionOperation("begin", "error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
	}
	s.metrics.IncrementSessionOperation("begin", "ok")

	s.logger.InfoContext(ctx, "session started",
		"request_id", requestcontext.RequestID(ctx),
		"session", rec.Key,
		"subject", sc.Claims.Subject,
		"account_type", sc.AccountType,
		"actions", sc.Actions.Len(),
		"client_ip", rec.ClientIP,
		"device", rec.Device,
	)
	sc.Key = rec.Key
	return sc, nil
}

// Resume rebuilds the session context from a stored session. Actions are
// recomputed from the stored credential; a credential that has since
// expired ends the session.
func (s *Service) Resume(ctx context.Context, key string) (*Context, error) {
	rec, err := s.find(ctx, "resume", key)
	if err != nil {
		return nil, err
	}

	sc, err := s.Derive(ctx, rec.Credential, AccountSelection{ID: rec.AccountID, Type: rec.AccountType})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to drop rejected session",
				"request_id", requestcontext.RequestID(ctx),
				"session", key,
				"error", delErr,
			)
		}
		s.metrics.IncrementSessionOperation("resume", "rejected")
		return nil, err
	}
	s.metrics.IncrementSessionOperation("resume", "ok")
	sc.Key = key
	return sc, nil
}

// Refresh swaps in a renewed credential for an existing session, keeping
// its account selection. Role changes take effect immediately.
func (s *Service) Refresh(ctx context.Context, key, credential string) (*Context, error) {
	rec, err := s.find(ctx, "refresh", key)
	if err != nil {
		return nil, err
	}

	sc, err := s.Derive(ctx, credential, AccountSelection{ID: rec.AccountID, Type: rec.AccountType})
	if err != nil {
		return nil, err
	}

	rec.Credential = credential
	if err := s.store.Save(ctx, rec, s.lifetime(ctx, sc.Claims)); err != nil {
		s.metrics.IncrementSessionOperation("refresh", "error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session")
	}
	s.metrics.IncrementSessionOperation("refresh", "ok")
	sc.Key = key
	return sc, nil
}

// End removes a stored session. Ending an unknown session is not an error.
func (s *Service) End(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		s.metrics.IncrementSessionOperation("end", "error")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end session")
	}
	s.metrics.IncrementSessionOperation("end", "ok")
	return nil
}

func (s *Service) find(ctx context.Context, op, key string) (*Record, error) {
	rec, err := s.store.Find(ctx, key)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementSessionOperation(op, "not_found")
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "session not found or expired")
	case err != nil:
		s.metrics.IncrementSessionOperation(op, "error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return rec, nil
}

func (s *Service) lifetime(ctx context.Context, claims *jwttoken.RoleClaims) time.Duration {
	if claims.ExpiresAt.IsZero() {
		return s.ttl
	}
	remaining := claims.ExpiresAt.Sub(requestcontext.Now(ctx))
	if remaining <= 0 {
		return time.Second
	}
	return min(s.ttl, remaining)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, jwttoken.ErrExpiredCredential):
		return "expired"
	case errors.Is(err, jwttoken.ErrNoRoles):
		return "no_roles"
	default:
		return "malformed"
	}
}

// No roles maps to forbidden: the identity is fine, it just grants nothing.
func translateDecodeError(err error) error {
	switch {
	case errors.Is(err, jwttoken.ErrExpiredCredential):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "credential has expired")
	case errors.Is(err, jwttoken.ErrNoRoles):
		return dErrors.Wrap(err, dErrors.CodeForbidden, "credential carries no recognised roles")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "credential is malformed")
	}
}
