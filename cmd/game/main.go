package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/game"
	"github.com/tomz197/astral-shooter/internal/logging"
	"github.com/tomz197/astral-shooter/internal/loop"
	"github.com/tomz197/astral-shooter/internal/score"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "astral: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	// Raw mode owns the terminal, so logs go to a file or nowhere.
	logger, logFile, err := logging.OpenFile(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FILE", ""))
	if err != nil {
		return err
	}
	defer logFile.Close()

	tuning, err := config.TuningFromEnv()
	if err != nil {
		return err
	}

	inner, err := score.Open(score.Options{
		Backend:    config.GetEnv("SCORE_BACKEND", score.BackendGData),
		AppName:    "astral-shooter",
		SQLitePath: config.GetEnv("SCORE_DB", "astral.db"),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}
	store := score.NewAsyncStore(inner, logger)
	defer store.Close()

	eng, err := game.NewEngine(game.Options{Tuning: &tuning, Store: store, Logger: logger})
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting local game")
	r := loop.New(os.Stdin, os.Stdout, loop.Options{Engine: eng, Logger: logger})
	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}
