package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shadowtv/ragrelay/internal/config"
	"github.com/shadowtv/ragrelay/internal/gateway"
	"github.com/shadowtv/ragrelay/internal/tokenizer"
)

func main() {
	cfg := config.Load()

	slog.Info("starting ragrelay",
		"listen", cfg.ListenAddr,
		"openai_host", cfg.OpenAIBaseURL,
		"index_namespace", cfg.PineconeNamespace,
	)

	// Without a tokenizer no request can be budgeted; refuse to start.
	tok, err := tokenizer.New(cfg.TokenizerEncoding)
	if err != nil {
		slog.Error("tokenizer initialization failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := gateway.New(cfg, tok)
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	case err := <-srvErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
