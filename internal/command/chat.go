package command

import (
	"context"
	"fmt"
	"time"

	"github.com/adamavenir/meshchat/internal/chat"
	"github.com/adamavenir/meshchat/internal/config"
	"github.com/adamavenir/meshchat/internal/db"
	"github.com/adamavenir/meshchat/internal/logging"
	"github.com/adamavenir/meshchat/internal/mesh"
	"github.com/adamavenir/meshchat/internal/state"
	"github.com/adamavenir/meshchat/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat mode",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	}
	addChatFlags(cmd)
	return cmd
}

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().String("nick", "", "nickname to use (saved for next time)")
	cmd.Flags().String("relay", "", "relay websocket url; switches to the relay transport")
	cmd.Flags().String("theme", "", "color theme: dark or light")
}

func runChat(cmd *cobra.Command, args []string) error {
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		return writeCommandError(cmd, fmt.Errorf("--json not supported for interactive chat"))
	}

	nickFlag, _ := cmd.Flags().GetString("nick")
	relayFlag, _ := cmd.Flags().GetString("relay")
	themeFlag, _ := cmd.Flags().GetString("theme")

	cfg, err := loadConfig(cmd, func(cfg *config.Config) {
		if themeFlag != "" {
			cfg.Theme = themeFlag
		}
		if relayFlag != "" {
			cfg.Transport.Kind = config.TransportRelay
			cfg.Transport.RelayURL = relayFlag
		}
	})
	if err != nil {
		return writeCommandError(cmd, err)
	}

	logCloser, err := logging.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer logCloser.Close()

	dbConn, err := db.Open(cfg.Storage.Path)
	if err != nil {
		return writeCommandError(cmd, err)
	}
	defer dbConn.Close()

	localID := types.PeerID(cfg.Transport.PeerID)
	if localID == "" {
		if localID, err = db.LocalPeerID(dbConn); err != nil {
			return writeCommandError(cmd, err)
		}
	}

	nickname, err := resolveNickname(dbConn, nickFlag, cfg.Nickname, localID)
	if err != nil {
		return writeCommandError(cmd, err)
	}

	favorites, err := db.NewFavoritesStore(dbConn)
	if err != nil {
		return writeCommandError(cmd, err)
	}

	transport := newTransport(cfg, localID, nickname)
	defer transport.Close()
	favorites.SetNicknameLookup(func(peer types.PeerID) string {
		return transport.Nicknames()[peer]
	})

	store := state.NewStore(state.Options{
		Transport: transport,
		Favorites: favorites,
		Nickname:  nickname,
		SaveNickname: func(name string) error {
			return db.SetNickname(dbConn, name)
		},
		OnPrivateMessage: chat.PrivateMessageNotifier(cfg.Notify.Enabled),
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := store.Start(ctx); err != nil {
		return writeCommandError(cmd, err)
	}
	log.Info().
		Str("peer_id", string(localID)).
		Str("nickname", nickname).
		Str("transport", cfg.Transport.Kind).
		Msg("chat started")

	return chat.Run(chat.Options{
		Store: store,
		Theme: cfg.Theme,
		Title: AppName + " · " + nickname,
	})
}

// resolveNickname picks the nickname for this session: the flag (which is
// saved), then the stored nickname, then the configured one, then a
// generated "anon" name.
func resolveNickname(dbConn db.DBTX, flag, configured string, localID types.PeerID) (string, error) {
	if flag != "" {
		if err := db.SetNickname(dbConn, flag); err != nil {
			return "", err
		}
		return flag, nil
	}
	stored, err := db.GetNickname(dbConn)
	if err != nil {
		return "", err
	}
	if stored != "" {
		return stored, nil
	}
	if configured != "" {
		return configured, nil
	}
	suffix := string(localID)
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return "anon" + suffix, nil
}

func newTransport(cfg *config.Config, localID types.PeerID, nickname string) mesh.Transport {
	if cfg.Transport.Kind == config.TransportRelay {
		return mesh.NewRelay(mesh.RelayOptions{
			URL:      cfg.Transport.RelayURL,
			LocalID:  localID,
			Nickname: nickname,
		})
	}
	return mesh.NewLoopback(mesh.LoopbackOptions{
		LocalID: localID,
		Peers:   mesh.DefaultLoopbackPeers(),
		Drift:   3 * time.Second,
		Seed:    uint64(time.Now().UnixNano()),
		Replies: true,
	})
}
