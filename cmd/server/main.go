package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"hexfront/internal/config"
	"hexfront/internal/game"
	"hexfront/internal/questions"
	"hexfront/internal/server"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides HTTP_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		logger.Error("failed to load tuning", "error", err)
		os.Exit(1)
	}

	pool, err := loadPool(cfg)
	if err != nil {
		logger.Error("failed to load question bank", "error", err)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "questions", len(pool))

	srv := server.New(cfg.HTTPAddr, tuning, pool, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// loadPool reads the question pool from a yaml bank when configured,
// otherwise from the sqlite store (seeded on first run).
func loadPool(cfg *config.Config) ([]game.Question, error) {
	if cfg.BankFile != "" {
		entries, err := questions.LoadYAML(cfg.BankFile)
		if err != nil {
			return nil, err
		}
		return questions.ToPool(entries), nil
	}

	store, err := questions.Open(cfg.QuestionsDB)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Pool()
}
