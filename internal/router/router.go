package router

import "github.com/adamavenir/meshchat/internal/types"

// AppTitle is shown in the header of the public view.
const AppTitle = "bitchat*"

// UnknownPeerTitle is shown for a private chat whose peer has no nickname.
const UnknownPeerTitle = "Unknown"

// ResolveActiveMessages returns the message sequence for the current
// selection: the private chat, then the channel, then the public view.
// Unknown peers and channels yield an empty sequence.
func ResolveActiveMessages(
	sel types.Selection,
	public []types.Message,
	channels map[string][]types.Message,
	private map[types.PeerID][]types.Message,
) []types.Message {
	if peer, ok := sel.Private(); ok {
		return orEmpty(private[peer])
	}
	if name, ok := sel.Channel(); ok {
		return orEmpty(channels[name])
	}
	return orEmpty(public)
}

// Resolve is ResolveActiveMessages for callers that still track the private
// peer and channel as two independent optional fields. If both are set the
// private chat wins.
func Resolve(
	privatePeer, channel *string,
	public []types.Message,
	channels map[string][]types.Message,
	private map[types.PeerID][]types.Message,
) []types.Message {
	return ResolveActiveMessages(types.SelectionFromFields(privatePeer, channel), public, channels, private)
}

// Title returns the header title for a selection.
func Title(sel types.Selection, nicknameOf func(types.PeerID) (string, bool)) string {
	if peer, ok := sel.Private(); ok {
		if name, ok := nicknameOf(peer); ok && name != "" {
			return name
		}
		return UnknownPeerTitle
	}
	if name, ok := sel.Channel(); ok {
		return "#" + name
	}
	return AppTitle
}

func orEmpty(messages []types.Message) []types.Message {
	if messages == nil {
		return []types.Message{}
	}
	return messages
}
