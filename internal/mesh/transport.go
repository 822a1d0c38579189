// Package mesh adapts mesh transports to the chat client.
//
// A Transport discovers peers, reports their nicknames and signal readings,
// delivers incoming messages, and reports delivery progress for outgoing
// ones. Everything flows to the client as Events through the sink passed to
// Start.
package mesh

import (
	"context"

	"github.com/adamavenir/meshchat/internal/types"
)

// Directory answers peer lookups at render time.
type Directory interface {
	Nicknames() map[types.PeerID]string
	Readings() map[types.PeerID]int
	LocalPeerID() types.PeerID
}

// Transport is a mesh connection.
type Transport interface {
	Directory
	// Start begins delivering events to sink. It returns once the
	// transport is connected; events keep arriving until ctx is done or
	// Close is called.
	Start(ctx context.Context, sink func(Event)) error
	// Send queues an outgoing message. Progress is reported later as
	// DeliveryUpdate events for out.Message.ID.
	Send(ctx context.Context, out Outgoing) error
	// Announce broadcasts a nickname change.
	Announce(ctx context.Context, nickname string) error
	Close() error
}

// Outgoing is a message handed to the transport.
type Outgoing struct {
	Scope   types.Scope
	Message types.Message
}

// Event is something the transport observed.
type Event interface {
	meshEvent()
}

// PeerJoined reports a newly connected peer.
type PeerJoined struct {
	Peer types.Peer
}

// PeerLeft reports a disconnected peer.
type PeerLeft struct {
	ID types.PeerID
}

// PeerUpdated reports a nickname or signal change.
type PeerUpdated struct {
	Peer types.Peer
}

// MessageReceived reports an incoming message.
type MessageReceived struct {
	Scope   types.Scope
	Message types.Message
}

// DeliveryUpdate reports progress for a message this client sent.
type DeliveryUpdate struct {
	MessageID string
	Status    types.DeliveryStatus
}

func (PeerJoined) meshEvent()      {}
func (PeerLeft) meshEvent()        {}
func (PeerUpdated) meshEvent()     {}
func (MessageReceived) meshEvent() {}
func (DeliveryUpdate) meshEvent()  {}
