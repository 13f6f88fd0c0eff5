// Package main is the entry point for the recipe service admin CLI.
// It provides administrative commands for managing users and tokens
// directly against the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/cache/memory"
	"github.com/rashid54/recipe-app-api/internal/config"
	"github.com/rashid54/recipe-app-api/internal/repository"
	"github.com/rashid54/recipe-app-api/internal/repository/postgres"
	"github.com/rashid54/recipe-app-api/internal/repository/sqlite"
	"github.com/rashid54/recipe-app-api/internal/service"
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
		fmt.Printf("Recipe API Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		runUserCommand(os.Args[2:])

	case "token":
		runTokenCommand(os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUserCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: recipe-admin user <create>")
		os.Exit(1)
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		email := fs.String("email", "", "email address (required)")
		password := fs.String("password", "", "password (required)")
		name := fs.String("name", "", "display name")
		superuser := fs.Bool("superuser", false, "grant staff and superuser flags")
		_ = fs.Parse(args[1:])

		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "Error: --email and --password are required")
			os.Exit(1)
		}

		withServices(*configPath, func(ctx context.Context, users *service.UserService, tokens *service.TokenService) error {
			out, err := users.Create(ctx, service.CreateUserInput{
				Email:       *email,
				Password:    *password,
				Name:        *name,
				IsStaff:     *superuser,
				IsSuperuser: *superuser,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created user %d (%s)\n", out.User.ID, out.User.Email)
			return nil
		})

	default:
		fmt.Fprintf(os.Stderr, "Unknown user command: %s\n", args[0])
		os.Exit(1)
	}
}

func runTokenCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: recipe-admin token <revoke-user|purge-expired>")
		os.Exit(1)
	}

	switch args[0] {
	case "revoke-user":
		fs := flag.NewFlagSet("token revoke-user", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		userID := fs.Int64("user-id", 0, "user whose tokens to revoke (required)")
		_ = fs.Parse(args[1:])

		if *userID == 0 {
			fmt.Fprintln(os.Stderr, "Error: --user-id is required")
			os.Exit(1)
		}

		withServices(*configPath, func(ctx context.Context, users *service.UserService, tokens *service.TokenService) error {
			count, err := tokens.RevokeAllForUser(ctx, *userID)
			if err != nil {
				return err
			}
			fmt.Printf("Revoked %d token(s) for user %d\n", count, *userID)
			return nil
		})

	case "purge-expired":
		fs := flag.NewFlagSet("token purge-expired", flag.ExitOnError)
		configPath := fs.String("config", "", "path to config file")
		_ = fs.Parse(args[1:])

		withServices(*configPath, func(ctx context.Context, users *service.UserService, tokens *service.TokenService) error {
			count, err := tokens.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d expired token(s)\n", count)
			return nil
		})

	default:
		fmt.Fprintf(os.Stderr, "Unknown token command: %s\n", args[0])
		os.Exit(1)
	}
}

// withServices opens the configured database, builds the services and
// runs fn, exiting nonzero on error.
func withServices(configPath string, fn func(context.Context, *service.UserService, *service.TokenService) error) {
	ctx := context.Background()
	cfg := config.MustLoad(configPath)

	// CLI output goes to stdout; keep logs quiet unless something breaks.
	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	repos, closeDB, err := openRepositories(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeDB()

	cache := memory.NewCache()
	defer cache.Stop()

	users := service.NewUserService(repos.User, cfg.Auth, logger)
	tokens := service.NewTokenService(repos.Token, repos.User, cache, cfg.Auth, logger)

	if err := fn(ctx, users, tokens); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*repository.Repositories, func(), error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewRepositories(db), func() { _ = db.Close() }, nil

	default:
		db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Path), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlite.NewRepositories(db), func() { _ = db.Close() }, nil
	}
}

func printUsage() {
	fmt.Println(`Recipe API Admin CLI

Usage:
  recipe-admin <command> [arguments]

Commands:
  user create          Create a user (use --superuser for an admin account)
  token revoke-user    Revoke all tokens of a user
  token purge-expired  Remove expired token records
  version              Print version information
  help                 Show this help message

Examples:
  recipe-admin user create --email admin@example.com --password secret --superuser
  recipe-admin token revoke-user --user-id 42
  recipe-admin token purge-expired

Configuration is read the same way as the server: a config file plus
RECIPE_-prefixed environment variables.`)
}
