package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig controls throttling of sensitive operations.  Login
// attempts are counted per client IP inside a fixed window; resends of
// verification emails are counted per user.  Backend selects the limiter
// implementation: "memory" keeps counters in-process, "redis" shares them
// across instances.
type RateLimitConfig struct {
    Backend         string        // "memory" or "redis"
    LoginMax        int           // login attempts allowed per window
    LoginWindow     time.Duration // login counting window
    ResendWindow    time.Duration // minimum gap between verification resends
    SweepInterval   time.Duration // how often the in-memory limiter evicts stale entries
    Prefix          string        // key namespace for the redis backend
}

func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Backend:       envStr("RATE_LIMIT_BACKEND", "memory"),
        LoginMax:      envInt("RATE_LIMIT_LOGIN_MAX", 5),
        LoginWindow:   envDur("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
        ResendWindow:  envDur("RATE_LIMIT_RESEND_WINDOW", time.Minute),
        SweepInterval: envDur("RATE_LIMIT_SWEEP_INTERVAL", 2*time.Minute),
        Prefix:        envStr("RATE_LIMIT_PREFIX", "rl"),
    }
    if def.LoginMax < 1 { def.LoginMax = 1 }
    if def.LoginWindow <= 0 { def.LoginWindow = 15 * time.Minute }
    if def.SweepInterval <= 0 { def.SweepInterval = 2 * time.Minute }
    return def
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
