package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kerems/akademix/internal/pkg/logger"
	"github.com/kerems/akademix/internal/server"
)

// @title Akademix API
// @version 1.0
// @description Role-based academic records platform: rosters, attendance, results, leave and feedback

// @contact.name API Support
// @contact.email support@akademix.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Optional .env for local development, real env vars win
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, relying on environment")
	}

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
