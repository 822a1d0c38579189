package command

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adamavenir/meshchat/internal/db"
	"github.com/spf13/cobra"
)

// NewNickCmd creates the nick command.
func NewNickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nick [name]",
		Short: "Show or set your nickname",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			if len(args) == 1 {
				name := strings.TrimSpace(args[0])
				if name == "" {
					return writeCommandError(cmd, fmt.Errorf("nickname cannot be empty"))
				}
				if err := db.SetNickname(ctx.DB, name); err != nil {
					return writeCommandError(cmd, err)
				}
				if ctx.JSONMode {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
						"nickname": name,
						"updated":  true,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Nickname set to %s\n", name)
				return nil
			}

			name, err := db.GetNickname(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if name == "" {
				name = ctx.Config.Nickname
			}
			peerID, err := db.LocalPeerID(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"nickname": name,
					"peer_id":  peerID,
				})
			}
			if name == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No nickname set (peer %s)\n", peerID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (peer %s)\n", name, peerID)
			return nil
		},
	}
	return cmd
}
