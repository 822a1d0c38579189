package types

type selectionKind int

const (
	selectPublic selectionKind = iota
	selectChannel
	selectPrivate
)

// Selection is the active conversation: the public view, one channel, or one
// private chat. The zero value is the public view. Only one target can be set
// because the kind and key share a single field pair.
type Selection struct {
	kind selectionKind
	key  string
}

// PublicSelection selects the broadcast view.
func PublicSelection() Selection {
	return Selection{}
}

// ChannelSelection selects a named channel. An empty name selects public.
func ChannelSelection(name string) Selection {
	if name == "" {
		return Selection{}
	}
	return Selection{kind: selectChannel, key: name}
}

// PrivateSelection selects a private chat with peer. An empty ID selects public.
func PrivateSelection(peer PeerID) Selection {
	if peer == "" {
		return Selection{}
	}
	return Selection{kind: selectPrivate, key: string(peer)}
}

// SelectionFromFields builds a Selection from two independent optional
// fields. When both are set the private peer wins over the channel.
func SelectionFromFields(privatePeer, channel *string) Selection {
	if privatePeer != nil && *privatePeer != "" {
		return PrivateSelection(PeerID(*privatePeer))
	}
	if channel != nil && *channel != "" {
		return ChannelSelection(*channel)
	}
	return PublicSelection()
}

// IsPublic reports whether nothing is selected.
func (s Selection) IsPublic() bool {
	return s.kind == selectPublic
}

// Channel returns the selected channel name.
func (s Selection) Channel() (string, bool) {
	if s.kind != selectChannel {
		return "", false
	}
	return s.key, true
}

// Private returns the selected private peer.
func (s Selection) Private() (PeerID, bool) {
	if s.kind != selectPrivate {
		return "", false
	}
	return PeerID(s.key), true
}

func (s Selection) String() string {
	switch s.kind {
	case selectChannel:
		return "#" + s.key
	case selectPrivate:
		return "@" + s.key
	default:
		return "public"
	}
}
