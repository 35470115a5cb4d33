package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itchan-dev/bbs/backend/internal/router"
	"github.com/itchan-dev/bbs/backend/internal/setup"
	"github.com/itchan-dev/bbs/shared/config"
	"github.com/itchan-dev/bbs/shared/logger"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "", "path to folder with configs (defaults are used when empty)")
	flag.Parse()

	cfg := config.Default()
	if configFolder != "" {
		cfg = config.MustLoad(configFolder)
	}
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps := setup.SetupDependencies(cfg)
	r := router.New(deps)

	server := &http.Server{
		Addr:         cfg.Public.Server.Addr,
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("starting board api", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
