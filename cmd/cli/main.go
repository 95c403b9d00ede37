package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/laundrydesk/internal/buildinfo"
	"github.com/dmitrijs2005/laundrydesk/internal/client/cli"
	"github.com/dmitrijs2005/laundrydesk/internal/client/config"
	"github.com/dmitrijs2005/laundrydesk/internal/filex"
	"github.com/dmitrijs2005/laundrydesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer func() { _ = z.Sync() }()
	}

	if _, err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "console stopped", "error", err)
	}
}
