package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/hangman"
	"github.com/robalobadob/hangman/internal/history"
	"github.com/robalobadob/hangman/internal/httpserver"
	"github.com/robalobadob/hangman/internal/store"
	"github.com/robalobadob/hangman/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	src, err := wordSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up word source")
	}

	rec := history.Nop()
	if cfg.HistoryDB != "" {
		db, err := history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.HistoryDB).Msg("failed to open history db")
		}
		rec = db
	}
	defer func() {
		if err := rec.Close(); err != nil {
			log.Warn().Err(err).Msg("close history db")
		}
	}()

	svc := hangman.NewService(src, store.NewMemoryStore(), rec)
	srv := httpserver.New(svc, httpserver.Options{
		DefaultMaxAttempts: cfg.DefaultMaxAttempts,
		RequestTimeout:     cfg.RequestTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", cfg.Addr()).Str("word_source", cfg.WordSource).Msg("starting hangman server")
	if err := srv.Run(ctx, cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server exited")
		return
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func wordSource(cfg config.Config) (words.Source, error) {
	if cfg.WordSource == config.SourceEmbedded {
		l, err := words.LoadList(cfg.WordsFile)
		if err != nil {
			return nil, err
		}
		log.Info().Int("words", l.Len()).Msg("using embedded word list")
		return l, nil
	}
	return words.NewRemote(cfg.WordAPIURL, cfg.WordAPITimeout), nil
}
