package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig creates the config file from the embedded template when missing and applies --url and --token.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		config = shared.DefaultConfig()
	}

	changed := false
	if url := cmd.String("url"); url != "" {
		config.Database.URL = url
		changed = true
	}
	if token := cmd.String("token"); token != "" {
		config.Database.AuthToken = token
		changed = true
	}

	if err := config.Validate(); err != nil {
		return err
	}

	if changed {
		if err := shared.SaveConfig(configPath, config); err != nil {
			return err
		}
	}

	r.config = config
	r.configPath = configPath

	r.writePlain("✓ Configuration ready at %s\n", configPath)
	r.writePlain("Database: %s\n", config.Database.URL)
	if config.Database.AuthToken == "" {
		r.writePlainln("No auth token set. Use --token or %s for hosted databases.", shared.EnvAuthToken)
	}
	return nil
}

// SetupDatabase initializes the local server database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Server.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.OpenSummaryStore(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s\n", path)
}
