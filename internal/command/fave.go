package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adamavenir/meshchat/internal/db"
	"github.com/adamavenir/meshchat/internal/types"
	"github.com/spf13/cobra"
)

// NewFaveCmd creates the fave command.
func NewFaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fave <peer-id>",
		Short: "Fave a peer",
		Long:  "Mark a peer as favorite. Faved peers sort first in the sidebar.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			peerID := types.PeerID(args[0])
			nickname, _ := cmd.Flags().GetString("nick")

			already, err := db.IsFavorite(ctx.DB, peerID)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if already {
				if ctx.JSONMode {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
						"already_faved": true,
						"peer_id":       peerID,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Already faved %s\n", peerID)
				return nil
			}

			favedAt, err := db.AddFavorite(ctx.DB, peerID, nickname)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"faved":    true,
					"peer_id":  peerID,
					"faved_at": favedAt,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Faved %s\n", peerID)
			return nil
		},
	}

	cmd.Flags().String("nick", "", "nickname to remember for the peer")
	return cmd
}

// NewUnfaveCmd creates the unfave command.
func NewUnfaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unfave <peer-id>",
		Short: "Unfave a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			peerID := types.PeerID(args[0])
			removed, err := db.RemoveFavorite(ctx.DB, peerID)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				if !removed {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
						"not_faved": true,
						"peer_id":   peerID,
					})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"unfaved": true,
					"peer_id": peerID,
				})
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Not faved: %s\n", peerID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unfaved %s\n", peerID)
			return nil
		},
	}
	return cmd
}

// NewFavesCmd creates the faves listing command.
func NewFavesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faves",
		Short: "List your faved peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Close()

			faves, err := db.GetFavorites(ctx.DB)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			if ctx.JSONMode {
				if faves == nil {
					faves = []db.Favorite{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(faves)
			}

			out := cmd.OutOrStdout()
			if len(faves) == 0 {
				fmt.Fprintln(out, "No faves yet")
				return nil
			}
			for _, f := range faves {
				when := time.UnixMilli(f.FavedAt).Format("2006-01-02")
				if f.Nickname != "" {
					fmt.Fprintf(out, "  ★ %s (%s) since %s\n", f.Nickname, f.PeerID, when)
				} else {
					fmt.Fprintf(out, "  ★ %s since %s\n", f.PeerID, when)
				}
			}
			return nil
		},
	}
	return cmd
}
