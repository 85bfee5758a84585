// Package main is the entry point for the dicetray viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/app"
	"github.com/Faultbox/dicetray/internal/config"
	"github.com/Faultbox/dicetray/internal/logger"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== dicetray ===")
	logger.Debug("config loaded", zap.String("source", cfg.Source()), zap.String("dice", cfg.Tray.Dice))

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
