// cmd/storefront/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/cli"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Command output goes to stdout; only warnings and up are logged unless debugging
	appLogger := logger.New(cfg.Logging)
	appLogger.SetOutput(os.Stderr)
	if !cfg.App.Debug {
		appLogger.SetLevel(logrus.WarnLevel)
	}

	ctx := context.Background()
	a, err := app.NewWithLogger(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	runErr := cli.New(a, os.Stdout).Run(ctx, os.Args)
	if err := a.Close(); err != nil {
		appLogger.WithError(err).Warn("Failed to close storage")
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
		os.Exit(1)
	}
}
