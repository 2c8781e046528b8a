package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/logging"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load recipes from a YAML file into the recipe store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the YAML seed file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Storage address (postgres://... or sqlite://...)",
				Value:   "sqlite://recipes.db",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := logging.SetDefault("recipes-seed", cmd.String("log-level"), "text")

			inputs, err := loadFixtures(cmd.String("file"))
			if err != nil {
				return err
			}

			db, err := database.Open(ctx, cmd.String("database-url"))
			if err != nil {
				return err
			}
			defer func() {
				_ = database.Close(db)
			}()

			recipeStore := store.NewGormRecipeStore(db)
			if err := recipeStore.AutoMigrate(ctx); err != nil {
				return fmt.Errorf("failed to prepare recipes table: %w", err)
			}

			created, err := seed(ctx, service.NewRecipeService(recipeStore, logger), inputs, logger)
			logger.Info("seeding finished", "created", created, "total", len(inputs))
			return err
		},
	}
}
