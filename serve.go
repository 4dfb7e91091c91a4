package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/findpair/internal/auth"
	"github.com/robalobadob/findpair/internal/db"
	"github.com/robalobadob/findpair/internal/httpserver"
	"github.com/robalobadob/findpair/internal/store"
	"github.com/robalobadob/findpair/internal/symbols"
)

func serveCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*cfg)
		},
	}
}

func runServe(cfg config) error {
	if err := symbols.Init(); err != nil {
		log.Warn().Err(err).Msg("symbol list unavailable, using fallback alphabet")
	}
	log.Info().Int("symbols", symbols.Count()).Msg("symbols loaded")

	conn, err := db.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	st, closeStore, err := openStore(cfg, conn)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := httpserver.New(st, httpserver.Options{
		Auth: auth.NewService(conn, auth.Config{
			Secret:     cfg.JWTSecret,
			TTL:        cfg.JWTTTL,
			CookieName: cfg.CookieName,
			Secure:     cfg.Production,
		}),
		GridSizes:    cfg.GridSizes,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
		Secure:       cfg.Production,
	})
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Ints("gridSizes", cfg.GridSizes).Msg("starting go-server")
	return srv.Start(":" + cfg.Port)
}

// openStore builds the configured board store and its cleanup func.
func openStore(cfg config, conn *sql.DB) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return store.NewRedisStore(rdb, cfg.GameTTL), func() { _ = rdb.Close() }, nil
	case "sqlite":
		return store.NewSQLiteStore(conn), func() {}, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}
