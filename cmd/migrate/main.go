package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cashly/internal/config"
	"github.com/MrJamesThe3rd/cashly/internal/database"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:]); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: migrate <up|down|version> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			slog.Warn("failed to close migration source", "error", srcErr)
		}

		if dbErr != nil {
			slog.Warn("failed to close migration database", "error", dbErr)
		}
	}()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrating up: %w", err)
		}

		slog.Info("migrations applied")
	case "down":
		steps := 1

		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}

		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migrating down: %w", err)
		}

		slog.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("reading version: %w", err)
		}

		slog.Info("schema version", "version", version, "dirty", dirty)
	default:
		return fmt.Errorf("unknown command %q (use up, down or version)", args[0])
	}

	return nil
}
