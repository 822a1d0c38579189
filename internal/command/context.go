package command

import (
	"database/sql"

	"github.com/adamavenir/meshchat/internal/config"
	"github.com/adamavenir/meshchat/internal/db"
	"github.com/spf13/cobra"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	Config   *config.Config
	DB       *sql.DB
	JSONMode bool
}

// Close releases the database.
func (c *CommandContext) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// loadConfig resolves and validates configuration for cmd. override, when
// set, applies command-line flags before validation.
func loadConfig(cmd *cobra.Command, override func(*config.Config)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{Path: path})
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetContext loads configuration and opens the local database.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	dbConn, err := db.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &CommandContext{Config: cfg, DB: dbConn, JSONMode: jsonMode}, nil
}
