// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Command server runs the VenueScout HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/venuescout/venuescout/internal/api"
	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/copywriter"
	"github.com/venuescout/venuescout/internal/kvstore"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/places"
	"github.com/venuescout/venuescout/internal/ratelimit"
	"github.com/venuescout/venuescout/internal/recommend"
	"github.com/venuescout/venuescout/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("starting venuescout")

	store, err := kvstore.OpenBadger(cfg.Store.Path, cfg.Store.GCInterval)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("store close failed")
		}
	}()

	provider := places.NewBreakerProvider(places.NewClient(cfg.Places))
	forecast := weather.NewClient(cfg.Weather)

	var annotator copywriter.Annotator = copywriter.Fallback{}
	if cfg.Copywriter.Enabled {
		annotator = copywriter.NewHTTPAnnotator(cfg.Copywriter)
	}

	engine := recommend.NewEngine(cfg.Recommend, provider, store, forecast, annotator, logging.Logger())

	// Development fails open on store outages; production refuses traffic it
	// cannot count.
	limiter := ratelimit.New(store, cfg.RateLimit, cfg.Environment == config.EnvDevelopment)

	handler := api.NewHandler(engine, limiter, store)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, cfg.Server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal().Err(err).Msg("server failed")
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
