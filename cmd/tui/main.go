package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokedetective/internal/catalog"
	"github.com/robalobadob/pokedetective/internal/config"
	"github.com/robalobadob/pokedetective/internal/daily"
	"github.com/robalobadob/pokedetective/internal/game"
	"github.com/robalobadob/pokedetective/internal/tui"
)

func main() {
	dailyMode := flag.Bool("daily", false, "play the creature of the day")
	seed := flag.Int64("seed", 0, "seed the target choice (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	closer, err := config.SetupLogging(cfg, io.Discard)
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	cat, err := catalog.Open(context.Background(), cfg.CatalogFile, cfg.CatalogDB)
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	var picker game.Picker = game.CryptoPicker{}
	switch {
	case *dailyMode:
		picker = daily.Today(cfg.DailySalt)
	case *seed != 0:
		picker = game.SeededPicker(*seed)
	}
	opts := []game.Option{game.WithHintBudget(cfg.HintBudget), game.WithPicker(picker)}
	if len(cfg.HintOrder) > 0 {
		opts = append(opts, game.WithHintPriority(cfg.HintOrder...))
	}
	sess, err := game.NewSession(cat, opts...)
	if err != nil {
		fmt.Printf("Error starting game: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("session", sess.ID()).Int("creatures", cat.Len()).Msg("terminal session started")

	if err := tui.Run(sess); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
