package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"microsite-console/internal/config"
	"microsite-console/internal/constants"
	fxmodules "microsite-console/internal/fx"
	"microsite-console/internal/middleware"
	"microsite-console/internal/poller"
	"microsite-console/internal/server"
	"microsite-console/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runConsole),
	).Run()
}

func runConsole(
	lc fx.Lifecycle,
	mirror *server.MirrorServer,
	session *service.Session,
	statsPoller *poller.Poller,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := middleware.RequestID(logger)(c.Handler(mirror.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.MirrorPort),
		Handler: handler,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			session.Restore(ctx)

			go func() {
				if err := session.RefreshAll(context.Background()); err != nil {
					logger.Warn().Err(err).Msg("initial refresh finished with errors")
				}
			}()

			if err := statsPoller.Start(); err != nil {
				return err
			}

			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("mirror server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("mirror server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			statsPoller.Stop()
			session.Close()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing snapshot database")
			}

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("mirror server shutdown failed")
				return err
			}
			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
