// internal/config/config.go
//
// Environment-driven configuration. `.env` files are loaded by main via
// godotenv before Load is called.
//
// Environment variables:
//   PORT                   listen port (5175)
//   LOG_LEVEL              zerolog level (info)
//   DB_DRIVER              sqlite | postgres (sqlite)
//   DB_PATH                SQLite file (./data/bossdle.db)
//   DATABASE_URL           PostgreSQL URL
//   CLIENT_ORIGIN          CORS origin (http://localhost:5173)
//   JWT_SECRET             token signing key
//   JWT_EXPIRES_DAYS       token lifetime (14)
//   COOKIE_NAME            auth cookie (bossdle_token)
//   APP_ENV                "production" enables Secure cookies
//   GAME_UTC_OFFSET_HOURS  game-day zone offset (-3)
//   GAME_ROLLOVER_HOUR     local hour a new game-day starts (6)
//   BUG_REPORT_PHONE       wa.me number bug reports go to
//   LEADERBOARD_LIMIT      rows per leaderboard (20)
//   BOSSES_FILE            override for the Dark Souls dataset
//   ELDEN_BOSSES_FILE      override for the Elden Ring dataset

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robalobadob/bossdle/internal/daily"
)

type Config struct {
	Port            string
	LogLevel        string
	DBDriver        string
	DBPath          string
	DatabaseURL     string
	ClientOrigin    string
	JWTSecret       string
	JWTExpiresDays  int
	CookieName      string
	Production      bool
	Clock           daily.Clock
	BugReportPhone  string
	LeaderboardSize int
	BossesFile      string
	EldenBossesFile string
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "5175"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		DBDriver:        getenv("DB_DRIVER", "sqlite"),
		DBPath:          getenv("DB_PATH", "./data/bossdle.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ClientOrigin:    getenv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:       getenv("JWT_SECRET", "dev_secret_change_me"),
		CookieName:      getenv("COOKIE_NAME", "bossdle_token"),
		Production:      os.Getenv("APP_ENV") == "production",
		BugReportPhone:  getenv("BUG_REPORT_PHONE", "5511991231629"),
		BossesFile:      os.Getenv("BOSSES_FILE"),
		EldenBossesFile: os.Getenv("ELDEN_BOSSES_FILE"),
	}

	var err error
	if cfg.JWTExpiresDays, err = getint("JWT_EXPIRES_DAYS", 14); err != nil {
		return cfg, err
	}
	if cfg.LeaderboardSize, err = getint("LEADERBOARD_LIMIT", 20); err != nil {
		return cfg, err
	}
	offset, err := getint("GAME_UTC_OFFSET_HOURS", -3)
	if err != nil {
		return cfg, err
	}
	rollover, err := getint("GAME_ROLLOVER_HOUR", daily.DefaultClock.RolloverHour)
	if err != nil {
		return cfg, err
	}
	if offset < -12 || offset > 14 {
		return cfg, fmt.Errorf("GAME_UTC_OFFSET_HOURS out of range: %d", offset)
	}
	if rollover < 0 || rollover > 23 {
		return cfg, fmt.Errorf("GAME_ROLLOVER_HOUR out of range: %d", rollover)
	}
	cfg.Clock = daily.Clock{Offset: time.Duration(offset) * time.Hour, RolloverHour: rollover}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
