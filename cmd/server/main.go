package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/clock"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/config"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/handler"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/logger"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/match"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository/file"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/repository/postgres"
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/service"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	blobs, err := file.New(cfg.Storage.Dir, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("blob store initialization failed")
	}

	timer := clock.New(blobs.TimerStates(), appLogger)
	defer timer.Close()

	store := match.NewStore(blobs.MatchStates(), timer, match.Defaults{
		PeriodDuration: cfg.Match.PeriodDuration,
		TotalPeriods:   cfg.Match.TotalPeriods,
	}, appLogger)

	// Tournaments live on local blobs in guest mode; the Postgres archive
	// takes over when configured.
	tournaments := repository.TournamentRepository(blobs.Tournaments())
	var pinger handler.Pinger
	var tournamentOpts []service.TournamentOption
	if cfg.Postgres.Enabled {
		pool, err := repository.NewPool(context.Background(), cfg, &appLogger)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pool.Close()
		tournaments = postgres.NewTournamentRepository(pool.Pgx())
		pinger = postgres.NewPinger(pool.Pgx())
		tournamentOpts = append(tournamentOpts, service.WithTxManager(postgres.NewTxManager(pool.Pgx())))
	}

	matchSvc := service.NewMatchService(store, appLogger)
	tournamentSvc := service.NewTournamentService(tournaments, appLogger, tournamentOpts...)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))
	handler.Register(r, pinger, matchSvc, tournamentSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: r,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("shutdown forced")
	}
	appLogger.Info().Msg("service stopped")
}

func configPath() string {
	if p := os.Getenv("APP_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}
