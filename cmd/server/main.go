package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizfilings/internal/business"
	"bizfilings/internal/filing"
	"bizfilings/internal/filing/service"
	jwttoken "bizfilings/internal/jwt_token"
	"bizfilings/internal/platform/config"
	"bizfilings/internal/platform/httpserver"
	"bizfilings/internal/platform/logger"
	"bizfilings/internal/platform/metrics"
	"bizfilings/internal/platform/redis"
	"bizfilings/internal/platform/tracing"
	"bizfilings/internal/session"
	httptransport "bizfilings/internal/transport/http"
)

// devSigningKey signs credentials minted by /dev/credentials when no
// JWT_SIGNING_KEY is configured.
const devSigningKey = "bizfilings-dev-signing-key"

var errMissingSigningKey = errors.New("JWT_SIGNING_KEY is required; set ALLOW_UNVERIFIED_CREDENTIALS=true to skip signature verification")

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	clock := time.Now
	decoder, signingKey, err := credentialDecoder(cfg, clock, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Init()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	m := metrics.New()
	checks := map[string]httptransport.HealthCheck{}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		checks["redis"] = redisClient.Health
	}

	source, sourceCheck, closeSource, err := snapshotSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()
	if sourceCheck != nil {
		checks["postgres"] = sourceCheck
	}

	var sessionStore session.Store = session.NewInMemoryStore()
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient.Client)
		cache := business.NewCachedSource(source, redisClient.Client, cfg.SnapshotCacheTTL,
			business.WithCacheMetrics(m),
			business.WithCacheLogger(log),
		)
		if len(cfg.SnapshotWarmIDs) > 0 {
			warmed, err := cache.Warm(ctx, cfg.SnapshotWarmIDs)
			if err != nil {
				log.Warn("snapshot cache warm-up failed", "error", err)
			} else {
				log.Info("snapshot cache warmed", "requested", len(cfg.SnapshotWarmIDs), "cached", warmed)
			}
		}
		source = cache
	}

	sessions := session.NewService(decoder,
		session.WithStore(sessionStore),
		session.WithMetrics(m),
		session.WithLogger(log),
		session.WithTTL(cfg.SessionTTL),
	)
	filings := service.New(source, filing.NewEvaluator(log),
		service.WithMetrics(m),
		service.WithTracer(tracing.Tracer()),
		service.WithLogger(log),
	)

	routerCfg := httptransport.RouterConfig{
		Sessions: sessions,
		Filings:  filings,
		Logger:   log,
		Metrics:  m,
		Checks:   checks,
		Clock:    clock,
	}
	if cfg.DevIssuer {
		log.Warn("development credential issuer enabled")
		routerCfg.Issuer = jwttoken.NewIssuer(signingKey, "bizfilings-dev", jwttoken.WithIssueClock(clock))
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(routerCfg),
		httpserver.WithLogger(log),
		httpserver.WithShutdownTimeout(10*time.Second),
	)
	return srv.Run(ctx)
}

// credentialDecoder builds the bearer credential decoder. Without a signing
// key the server only starts when unverified credentials are explicitly
// allowed; the dev issuer brings its own key.
func credentialDecoder(cfg config.Server, clock func() time.Time, log *slog.Logger) (*jwttoken.Decoder, string, error) {
	signingKey := cfg.JWTSigningKey
	if signingKey == "" && cfg.DevIssuer {
		signingKey = devSigningKey
	}

	opts := []jwttoken.DecoderOption{jwttoken.WithClock(clock)}
	switch {
	case signingKey != "":
		opts = append(opts, jwttoken.WithSigningKey(signingKey))
	case cfg.AllowUnverifiedCredentials:
		log.Warn("ALLOW_UNVERIFIED_CREDENTIALS set; credential signatures are not verified")
	default:
		return nil, "", errMissingSigningKey
	}
	return jwttoken.NewDecoder(opts...), signingKey, nil
}

// snapshotSource opens the Postgres snapshot store when DATABASE_URL is set,
// otherwise it serves the sample businesses from memory.
func snapshotSource(ctx context.Context, cfg config.Server, log *slog.Logger) (business.SnapshotSource, httptransport.HealthCheck, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set; serving sample businesses from memory")
		return business.NewInMemoryStore(sampleBusinesses()...), nil, func() {}, nil
	}

	db, err := business.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	store := business.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
	}
	if cfg.SeedSampleData {
		if err := store.Import(ctx, sampleBusinesses()...); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("seed sample businesses: %w", err)
		}
		log.Info("sample businesses loaded into postgres")
	}
	return store, db.PingContext, func() { db.Close() }, nil
}
