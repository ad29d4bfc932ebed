package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/five82/snooze/internal/devserver"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:7480", "listen address")
	secret := flag.String("secret", os.Getenv("SNOOZE_DEVSERVER_SECRET"), "token signing secret (random when empty)")
	ratePerSecond := flag.Float64("rate", 0, "per-client requests per second (0 disables limiting)")
	burst := flag.Int("burst", 20, "per-client burst size")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("app", "snooze-devserver")

	key := *secret
	if key == "" {
		key = uuid.NewString()
		logger.Info("using random signing secret; tokens will not survive a restart")
	}

	srv, err := devserver.New(devserver.Config{
		Secret:        []byte(key),
		RatePerSecond: *ratePerSecond,
		Burst:         *burst,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "snooze-devserver: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return 1
		}
		logger.Info("stopped")
	}
	return 0
}
