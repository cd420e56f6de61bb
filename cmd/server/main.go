package main

import (
	"flag"
	"fmt"
	"os"

	_ "classdesk/docs"
	"classdesk/internal/config"
	"classdesk/internal/server"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// @title           Classdesk API
// @version         1.0
// @description     Academic task management: courses, tasks, assignments, submissions and grading.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDirection := migrateCmd.String("direction", "up", "direction of migration (up/down)")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		migrateCmd.Parse(os.Args[2:])
		runMigrations(logger, *migrateDirection)
		return
	}

	cfg := config.Load()

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Server initialization failed")
	}

	s.Run()
}

func runMigrations(logger zerolog.Logger, direction string) {
	cfg := config.Load()
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)

	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to init migrator")
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		logger.Fatal().Msg("Invalid migration direction. Use 'up' or 'down'")
	}

	if err != nil && err != migrate.ErrNoChange {
		logger.Fatal().Err(err).Msg("Migration failed")
	}
	logger.Info().Str("direction", direction).Msg("Migrations applied")
}
