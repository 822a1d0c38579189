package types

import "time"

// PeerID is the stable identifier the mesh transport assigns to a peer.
type PeerID string

// SystemSender is the sender name used for locally generated notices.
const SystemSender = "system"

// Message represents a chat message in one of the three scopes.
// Messages are values; a status change produces a replacement via WithStatus.
type Message struct {
	ID           string         `json:"id"`
	Sender       string         `json:"sender"`
	SenderPeerID *PeerID        `json:"sender_peer_id,omitempty"`
	Content      string         `json:"content"`
	Timestamp    time.Time      `json:"timestamp"`
	Status       DeliveryStatus `json:"-"`
}

// WithStatus returns a copy of the message carrying the given status.
func (m Message) WithStatus(status DeliveryStatus) Message {
	m.Status = status
	return m
}

// IsSystem reports whether the message is a local notice.
func (m Message) IsSystem() bool {
	return m.Sender == SystemSender
}

// Peer represents a known mesh peer.
type Peer struct {
	ID       PeerID `json:"id"`
	Nickname string `json:"nickname,omitempty"`
	RSSI     int    `json:"rssi"`
	Favorite bool   `json:"favorite,omitempty"`
}

// DisplayName returns the nickname, or the peer ID when none is known.
func (p Peer) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return string(p.ID)
}

// Channel represents a named channel the user may have joined.
type Channel struct {
	Name   string `json:"name"`
	Joined bool   `json:"joined"`
	Unread int    `json:"unread"`
}

// ScopeKind identifies which collection a message belongs to.
type ScopeKind string

const (
	ScopeKindPublic  ScopeKind = "public"
	ScopeKindChannel ScopeKind = "channel"
	ScopeKindPrivate ScopeKind = "private"
)

// Scope tags a message with the collection it lives in.
type Scope struct {
	Kind    ScopeKind `json:"kind"`
	Channel string    `json:"channel,omitempty"`
	Peer    PeerID    `json:"peer,omitempty"`
}

// ScopePublic is the broadcast scope.
func ScopePublic() Scope {
	return Scope{Kind: ScopeKindPublic}
}

// ScopeChannel is the scope of a named channel.
func ScopeChannel(name string) Scope {
	return Scope{Kind: ScopeKindChannel, Channel: name}
}

// ScopePrivate is the scope of a one-to-one conversation with peer.
func ScopePrivate(peer PeerID) Scope {
	return Scope{Kind: ScopeKindPrivate, Peer: peer}
}

// ScopeFor returns the scope that messages sent under sel belong to.
func ScopeFor(sel Selection) Scope {
	if peer, ok := sel.Private(); ok {
		return ScopePrivate(peer)
	}
	if name, ok := sel.Channel(); ok {
		return ScopeChannel(name)
	}
	return ScopePublic()
}
