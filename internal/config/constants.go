package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

// Token lifetimes. Expiry is checked lazily at validation time; the cleanup
// job only reclaims storage.
const (
	SessionTTL    = 7 * 24 * time.Hour
	ResetTokenTTL = time.Hour
)

// Per-IP request budget for the unauthenticated auth endpoints
const AuthRateLimitPerMin = 10

// Minimum accepted password length
const MinPasswordLength = 8
