// Package main is the entry point for the recipe service migration tool.
// It applies the embedded schema migrations for either database backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/config"
	"github.com/rashid54/recipe-app-api/internal/repository/postgres"
	"github.com/rashid54/recipe-app-api/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Recipe API Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up":
		runUp(os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUp(args []string) {
	fs := flag.NewFlagSet("up", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	ctx := context.Background()
	cfg := config.MustLoad(*configPath)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var err error
	switch cfg.Database.Driver {
	case "postgres":
		err = migratePostgres(ctx, cfg.Database, logger)
	default:
		err = migrateSQLite(ctx, cfg.Database, logger)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}

func migratePostgres(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) error {
	db, err := postgres.NewDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Migrate(ctx)
}

func migrateSQLite(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) error {
	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Path), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Migrate(ctx)
}

func printUsage() {
	fmt.Println(`Recipe API Migration Tool

Usage:
  recipe-migrate <command> [arguments]

Commands:
  up        Apply all pending migrations
  version   Print version information
  help      Show this help message

Examples:
  recipe-migrate up
  recipe-migrate up --config ./configs/config.yaml

The database backend and connection settings come from the same
configuration as the server (config file plus RECIPE_-prefixed
environment variables).`)
}
