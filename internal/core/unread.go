package core

import (
	"strconv"

	"github.com/adamavenir/meshchat/internal/types"
)

// UnreadBadge computes the menu badge count.
//
// The count is the number of peers with unread private messages plus the
// number of connected peers whose nickname matches a channel with unread
// messages. The second term joins peers to channels by nickname.
func UnreadBadge(
	unreadPrivate map[types.PeerID]struct{},
	connected []types.PeerID,
	nicknameOf func(types.PeerID) (string, bool),
	unreadChannels map[string]int,
) int {
	count := len(unreadPrivate)
	for _, peer := range connected {
		name, _ := nicknameOf(peer)
		if unreadChannels[name] > 0 {
			count++
		}
	}
	return count
}

// BadgeLabel returns the text for a badge, or false when it should be hidden.
func BadgeLabel(count int) (string, bool) {
	if count <= 0 {
		return "", false
	}
	return strconv.Itoa(count), true
}
