package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokedetective/internal/catalog"
	"github.com/robalobadob/pokedetective/internal/config"
	"github.com/robalobadob/pokedetective/internal/game"
	"github.com/robalobadob/pokedetective/internal/httpserver"
	"github.com/robalobadob/pokedetective/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	closer, err := config.SetupLogging(cfg, config.ConsoleWriter())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}
	defer closer.Close()

	cat, err := catalog.Open(context.Background(), cfg.CatalogFile, cfg.CatalogDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	// Fail at startup, not on the first /session/new, when HINT_ORDER is bad.
	if len(cfg.HintOrder) > 0 {
		if _, err := game.NewHintPolicy(cat.Schema(), cfg.HintOrder...); err != nil {
			log.Fatal().Err(err).Msg("invalid HINT_ORDER")
		}
	}
	log.Info().Int("creatures", cat.Len()).Strs("attributes", cat.Schema().Names()).Msg("catalog loaded")

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, cat, httpserver.Options{
		HintBudget:    cfg.HintBudget,
		HintOrder:     cfg.HintOrder,
		JWTSecret:     cfg.JWTSecret,
		CookieName:    cfg.CookieName,
		ClientOrigin:  cfg.ClientOrigin,
		DailySalt:     cfg.DailySalt,
		SecureCookies: cfg.Production(),
	})
	log.Info().Str("port", cfg.Port).Msg("starting pokedetective server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
