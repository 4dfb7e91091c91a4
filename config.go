package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/findpair/internal/game"
)

// config is read from the environment (and .env via godotenv).
type config struct {
	Port          string
	LogLevel      string
	DBPath        string
	StoreBackend  string // memory | redis | sqlite
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	GameTTL       time.Duration
	JWTSecret     string
	JWTTTL        time.Duration
	CookieName    string
	ClientOrigin  string
	Production    bool
	DailySalt     string
	GridSizes     []int
}

func loadConfig() (config, error) {
	sizes, err := parseSizes(getEnv("GRID_SIZES", "2,4"))
	if err != nil {
		return config{}, err
	}
	cfg := config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBPath:        getEnv("DB_PATH", "./data/app.db"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		GameTTL:       time.Duration(envInt("GAME_TTL_HOURS", 24)) * time.Hour,
		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTTTL:        time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:    getEnv("COOKIE_NAME", "findpair_token"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:    os.Getenv("NODE_ENV") == "production",
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		GridSizes:     sizes,
	}
	switch cfg.StoreBackend {
	case "memory", "redis", "sqlite":
	default:
		return config{}, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend)
	}
	return cfg, nil
}

// parseSizes parses a comma-separated list of grid sizes.
// Sizes must be positive and even so every board can be completed.
func parseSizes(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("GRID_SIZES: %q: %w", part, err)
		}
		if n <= 0 || n%2 != 0 || n > game.MaxGridSize {
			return nil, fmt.Errorf("GRID_SIZES: %d must be an even number in [2,%d]", n, game.MaxGridSize)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("GRID_SIZES: no sizes configured")
	}
	return out, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt returns k parsed as an int, or def if unset/invalid.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
