package main

import (
	"os"

	"github.com/alumnode/backend/internal/pkg/logger"
	"github.com/alumnode/backend/internal/server"
)

// @title AlumNode API
// @version 1.0
// @description Student and alumni networking backend: accounts, posts, profiles and connections.

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
