package main

import (
	"fmt"
	"os"

	_ "taskboard/docs"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/server"
)

// @title           Task Board API
// @version         1.0
// @description     Ordered task columns with optimistic, version-checked moves.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	s, err := server.Init(cfg, log)
	if err != nil {
		log.Fatalw("server_init_failed", "error", err)
	}

	if err := s.Run(); err != nil {
		log.Fatalw("server_failed", "error", err)
	}
}
