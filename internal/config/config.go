package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultAdminEmail        = "admin@contesthub.local"
	defaultMinWithdrawal     = "10"
	defaultPointsPerWin      = "100"
	defaultPrizeDistribution = "1:50,2:30,3:20"
	defaultRateLimit         = "120"
	defaultRateWindow        = "1m"
	defaultGatewayTimeout    = "10s"
	defaultListenAddr        = ":8080"
)

// Config is the engine's runtime configuration, loaded from the environment.
// The admin email is deliberately configuration and not a database flag: the
// admin role is re-validated against it on every request.
type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret  string
	AdminEmail string

	MinWithdrawal     float64
	PointsPerWin      int
	PrizeDistribution map[int]float64 // rank -> share of prize money, shares sum to <= 1

	RateLimit  int
	RateWindow time.Duration

	GatewayTimeout    time.Duration
	ReconcileInterval time.Duration
	GatewayTestMode   bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", defaultAdminEmail)))

	var err error
	if cfg.MinWithdrawal, err = parseFloatEnv("MIN_WITHDRAWAL", defaultMinWithdrawal); err != nil {
		return nil, err
	}
	if cfg.PointsPerWin, err = parseIntEnv("POINTS_PER_WIN", defaultPointsPerWin); err != nil {
		return nil, err
	}
	if cfg.PrizeDistribution, err = parseDistributionEnv("PRIZE_DISTRIBUTION", defaultPrizeDistribution); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = parseIntEnv("RATE_LIMIT", defaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = parseDurationEnv("RATE_WINDOW", defaultRateWindow); err != nil {
		return nil, err
	}
	if cfg.GatewayTimeout, err = parseDurationEnv("GATEWAY_TIMEOUT", defaultGatewayTimeout); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = parseDurationEnv("RECONCILE_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	cfg.GatewayTestMode = parseBoolEnv("GATEWAY_TEST_MODE", "true")

	return cfg, nil
}

// Distribution returns the prize shares ordered by rank.
func (c *Config) Distribution() []float64 {
	ranks := make([]int, 0, len(c.PrizeDistribution))
	for r := range c.PrizeDistribution {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	out := make([]float64, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, c.PrizeDistribution[r])
	}
	return out
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseIntEnv(name, def string) (int, error) {
	raw := getEnv(name, def)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", name, raw, err)
	}
	return v, nil
}

func parseFloatEnv(name, def string) (float64, error) {
	raw := getEnv(name, def)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", name, raw, err)
	}
	return v, nil
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", name, raw, err)
	}
	return v, nil
}

func parseBoolEnv(name, def string) bool {
	raw := strings.ToLower(strings.TrimSpace(getEnv(name, def)))
	return raw == "1" || raw == "true" || raw == "yes"
}

// parseDistributionEnv parses "rank:percent" pairs, e.g. "1:50,2:30,3:20".
// Percentages are converted to fractions; their sum must not exceed 100.
func parseDistributionEnv(name, def string) (map[int]float64, error) {
	raw := getEnv(name, def)
	out := make(map[int]float64)

	var sum float64
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid %s entry %q", name, pair)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || rank < 1 {
			return nil, fmt.Errorf("invalid %s rank %q", name, parts[0])
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || pct <= 0 {
			return nil, fmt.Errorf("invalid %s share %q", name, parts[1])
		}
		if _, dup := out[rank]; dup {
			return nil, fmt.Errorf("duplicate %s rank %d", name, rank)
		}
		out[rank] = pct / 100
		sum += pct
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}
	if sum > 100 {
		return nil, fmt.Errorf("%s shares sum to %.1f%%, must not exceed 100%%", name, sum)
	}
	return out, nil
}
