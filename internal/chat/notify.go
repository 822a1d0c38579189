package chat

import (
	"strings"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

const notificationBodyLimit = 100

// notify is swapped out in tests.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// PrivateMessageNotifier returns a callback that raises a desktop
// notification for private messages arriving in an inactive chat, or nil
// when notifications are disabled.
func PrivateMessageNotifier(enabled bool) func(types.PeerID, types.Message) {
	if !enabled {
		return nil
	}
	return func(from types.PeerID, msg types.Message) {
		go func() {
			if err := SendNotification(msg); err != nil {
				log.Warn().Err(err).Str("peer_id", string(from)).Msg("desktop notification failed")
			}
		}()
	}
}

// SendNotification shows a desktop notification for msg.
func SendNotification(msg types.Message) error {
	title := "meshchat · " + msg.Sender
	body := truncateNotification(msg.Content, notificationBodyLimit)
	return notify(title, body)
}

func truncateNotification(s string, maxLen int) string {
	// Collapse whitespace for notification
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
