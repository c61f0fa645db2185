package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ormimu/ormimu/internal/shared"
)

// SetupConfig writes a default config.toml for the user to edit.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("created configuration file", "path", configPath)
	return r.writePlain("Wrote default configuration to %s\n", configPath)
}

// SetupDatabase initializes the catalog database and applies migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("database initialized")
	return r.writePlain("Database ready\n")
}
