package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adamavenir/meshchat/internal/config"
	"github.com/adamavenir/meshchat/internal/db"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a sample config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Init(path); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
					return nil
				}
				return writeCommandError(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration and stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			entries, err := db.GetAllConfig(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"config": ctx.Config,
					"stored": entries,
				})
			}

			out := cmd.OutOrStdout()
			cfg := ctx.Config
			fmt.Fprintln(out, "Configuration:")
			fmt.Fprintf(out, "  nickname: %s\n", cfg.Nickname)
			fmt.Fprintf(out, "  theme: %s\n", cfg.Theme)
			fmt.Fprintf(out, "  transport.kind: %s\n", cfg.Transport.Kind)
			if cfg.Transport.RelayURL != "" {
				fmt.Fprintf(out, "  transport.relay_url: %s\n", cfg.Transport.RelayURL)
			}
			fmt.Fprintf(out, "  storage.path: %s\n", cfg.Storage.Path)
			fmt.Fprintf(out, "  log.path: %s\n", cfg.Log.Path)
			fmt.Fprintf(out, "  log.level: %s\n", cfg.Log.Level)
			fmt.Fprintf(out, "  notify.enabled: %t\n", cfg.Notify.Enabled)
			if len(entries) > 0 {
				fmt.Fprintln(out, "Stored:")
				for _, entry := range entries {
					fmt.Fprintf(out, "  %s: %s\n", entry.Key, entry.Value)
				}
			}
			return nil
		},
	}
}
