package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mboros1/fast-pdf-parser/internal/apiserver"
	"github.com/mboros1/fast-pdf-parser/internal/chunker"
	"github.com/mboros1/fast-pdf-parser/internal/extractor"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := loadConfig()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	c, err := chunker.NewChunker(chunker.ChunkOptions{
		MaxTokens:     cfg.DefaultMaxTokens,
		MinTokens:     cfg.DefaultMinTokens,
		OverlapTokens: cfg.DefaultOverlap,
		ThreadCount:   cfg.Threads,
	}, extractor.New())
	if err != nil {
		log.Error("invalid chunk options", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	srv := apiserver.NewServer(c, log, apiserver.Config{
		MaxUploadBytes:   cfg.MaxUploadBytes,
		DefaultMaxTokens: cfg.DefaultMaxTokens,
		DefaultMinTokens: cfg.DefaultMinTokens,
		DefaultOverlap:   cfg.DefaultOverlap,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		c.Close()
	}()

	log.Info("starting chunkpdfd", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
