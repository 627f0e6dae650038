package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string

	// JWTSigningKey enables HS256 verification of bearer credentials. The
	// server refuses to start without one unless AllowUnverifiedCredentials
	// or DevIssuer is set.
	JWTSigningKey string
	// AllowUnverifiedCredentials accepts credentials without checking their
	// signature. Only for deployments behind a gateway that already verified them.
	AllowUnverifiedCredentials bool

	// DevIssuer mounts a credential minting endpoint. Never enable in production.
	DevIssuer bool

	SessionTTL       time.Duration
	SnapshotCacheTTL time.Duration
	DatabaseURL      string
	// SeedSampleData loads the sample businesses into Postgres at startup.
	SeedSampleData bool
	// SnapshotWarmIDs are loaded into the snapshot cache at startup.
	SnapshotWarmIDs []string
	Redis           RedisConfig
}

// RedisConfig holds connection settings for the session store and snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("BIZFILINGS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr:                       addr,
		LogLevel:                   envString("LOG_LEVEL", "info"),
		JWTSigningKey:              os.Getenv("JWT_SIGNING_KEY"),
		AllowUnverifiedCredentials: os.Getenv("ALLOW_UNVERIFIED_CREDENTIALS") == "true",
		DevIssuer:                  os.Getenv("DEV_ISSUER") == "true",
		SessionTTL:                 envDuration("SESSION_TTL", 8*time.Hour),
		SnapshotCacheTTL:           envDuration("SNAPSHOT_CACHE_TTL", 30*time.Second),
		DatabaseURL:                os.Getenv("DATABASE_URL"),
		SeedSampleData:             os.Getenv("SEED_SAMPLE_DATA") == "true",
		SnapshotWarmIDs:            envList("SNAPSHOT_WARM_IDS"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList splits a comma separated value, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Unparseable values fall back silently; a typo should not keep the server down.
func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
