package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/itchan-dev/bbs/client/internal/console"
	"github.com/itchan-dev/bbs/client/internal/setup"
	"github.com/itchan-dev/bbs/shared/config"
	"github.com/itchan-dev/bbs/shared/logger"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "", "path to folder with public.yaml/private.yaml (defaults are used when empty)")
	flag.Parse()

	cfg := config.Default()
	if configFolder != "" {
		cfg = config.MustLoad(configFolder)
	}
	logger.InitializeTo(os.Stderr, cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up client", "error", err)
		os.Exit(1)
	}
	defer deps.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := console.New(os.Stdin, os.Stdout, deps.Session, deps.List, deps.APIClient)
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Log.Error("console stopped", "error", err)
		os.Exit(1)
	}
}
