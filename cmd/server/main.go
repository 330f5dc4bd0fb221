package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"ligapro-predictor/internal/ambience"
	"ligapro-predictor/internal/config"
	"ligapro-predictor/internal/constants"
	fxmodules "ligapro-predictor/internal/fx"
	"ligapro-predictor/internal/middleware"
	"ligapro-predictor/internal/server"
	"ligapro-predictor/internal/ui"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	srv *server.Server,
	registry *ui.Registry,
	slideshow *ambience.Slideshow,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.RequestID(logger)(srv.Routes()),
	}

	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go slideshow.Run(ctx)
			go registry.Run(ctx)
			go func() {
				logger.Info().
					Str("addr", httpSrv.Addr).
					Str("predictor", cfg.PredictorAPIURL).
					Msg("server starting")
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info().Msg("shutting down server")
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer shutdownCancel()

			err := httpSrv.Shutdown(shutdownCtx)
			if err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
			}

			if cerr := db.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("error closing database connection")
			}

			if err != nil {
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
