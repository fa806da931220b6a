package main

import (
	"context"
	"fmt"
	"os"

	"shoken-assist/backend/internal/config"
	"shoken-assist/backend/internal/logging"
	"shoken-assist/backend/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("SHOKEN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := server.Run(context.Background(), cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
