package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bossdle/assets"
	"github.com/robalobadob/bossdle/internal/bosses"
	"github.com/robalobadob/bossdle/internal/config"
	"github.com/robalobadob/bossdle/internal/database"
	"github.com/robalobadob/bossdle/internal/game"
	"github.com/robalobadob/bossdle/internal/httpserver"
	"github.com/robalobadob/bossdle/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	modes, err := loadModes(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load boss datasets")
	}

	dialect, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid DB_DRIVER")
	}
	dsn := cfg.DBPath
	if dialect == database.Postgres {
		dsn = cfg.DatabaseURL
	}
	db, err := database.Open(dialect, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(dialect)).Msg("failed to open database")
	}
	defer db.Close()
	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv := httpserver.New(cfg, modes, store.NewSQLStore(db), db)
	log.Info().Str("port", cfg.Port).Str("driver", string(dialect)).Msg("starting bossdle")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// loadModes builds the Bossdle (Dark Souls trilogy) and Eldendle engines.
// Only the Dark Souls dataset goes through the translation tables; the
// Elden Ring file ships its own EN/PT fields.
func loadModes(cfg config.Config) ([]*game.Engine, error) {
	rawTr, err := assets.Translations()
	if err != nil {
		return nil, err
	}
	tr, err := bosses.ParseTranslations(rawTr)
	if err != nil {
		return nil, err
	}

	rawDS, err := bosses.ReadSource(cfg.BossesFile, assets.DarkSouls)
	if err != nil {
		return nil, err
	}
	ds, err := bosses.Load(rawDS, tr)
	if err != nil {
		return nil, fmt.Errorf("bossdle: %w", err)
	}

	rawER, err := bosses.ReadSource(cfg.EldenBossesFile, assets.EldenRing)
	if err != nil {
		return nil, err
	}
	er, err := bosses.Load(rawER, nil)
	if err != nil {
		return nil, fmt.Errorf("eldendle: %w", err)
	}

	for key, d := range map[string]*bosses.Dataset{"bossdle": ds, "eldendle": er} {
		if d.Len() == 0 {
			return nil, fmt.Errorf("%s: empty dataset", key)
		}
		log.Info().Str("mode", key).Int("bosses", d.Len()).Msg("dataset loaded")
	}

	return []*game.Engine{
		game.NewEngine(game.Mode{
			Key: "bossdle", Title: "Bossdle", StorageKey: "bossdleState", Dataset: ds, Localized: true,
		}, cfg.Clock),
		game.NewEngine(game.Mode{
			Key: "eldendle", Title: "Eldendle", StorageKey: "eldendleState", Dataset: er, Localized: true,
		}, cfg.Clock),
	}, nil
}
