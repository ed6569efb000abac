package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	appmatch "github.com/juliantomlin/card-game-midterm/internal/app/match"
	"github.com/juliantomlin/card-game-midterm/internal/config"
	"github.com/juliantomlin/card-game-midterm/internal/game"
	"github.com/juliantomlin/card-game-midterm/internal/logging"
	"github.com/juliantomlin/card-game-midterm/internal/store"
	httptransport "github.com/juliantomlin/card-game-midterm/internal/transport/http"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	plan, err := game.ParseDealPlan(cfg.DealPlayer1Suit, cfg.DealPlayer2Suit, cfg.DealDeckSuit)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid deal plan")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.EnsureDefaultCatalog(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("ensure card catalog failed")
	}

	eng := game.NewEngine(st, plan, nil)
	svc := appmatch.NewService(eng, st)
	if cfg.MatchIdleTimeout > 0 {
		svc.StartJanitor(context.Background(), cfg.JanitorInterval, cfg.MatchIdleTimeout)
		log.Info().Dur("max_idle", cfg.MatchIdleTimeout).Msg("idle match janitor running")
	}

	r := httptransport.NewRouter(svc, st)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
