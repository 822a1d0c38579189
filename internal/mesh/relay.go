package mesh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 64 * 1024
	sendBufferSize = 64
)

// Relay frame ops.
const (
	OpHello      = "hello"
	OpPeers      = "peers"
	OpPeerJoin   = "peer_join"
	OpPeerLeave  = "peer_leave"
	OpPeerUpdate = "peer_update"
	OpMessage    = "message"
	OpStatus     = "status"
	OpNickname   = "nickname"
)

// Frame is one JSON message on the relay socket.
type Frame struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d,omitempty"`
}

// HelloData identifies the client to the relay.
type HelloData struct {
	PeerID   types.PeerID `json:"peer_id"`
	Nickname string       `json:"nickname"`
}

// MessageData carries a chat message in either direction.
type MessageData struct {
	Scope   types.Scope   `json:"scope"`
	Message types.Message `json:"message"`
}

// StatusData carries delivery progress for a message.
type StatusData struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	Acked     int    `json:"acked,omitempty"`
	Total     int    `json:"total,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// NewFrame encodes data under op.
func NewFrame(op string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s frame: %w", op, err)
	}
	return Frame{Op: op, Data: raw}, nil
}

// EncodeStatus converts a delivery status to its wire form.
func EncodeStatus(messageID string, status types.DeliveryStatus) StatusData {
	data := StatusData{MessageID: messageID, Status: status.Name()}
	switch s := status.(type) {
	case types.PartiallyDelivered:
		data.Acked, data.Total = s.Acked, s.Total
	case types.Failed:
		data.Reason = s.Reason
	}
	return data
}

// DecodeStatus converts a wire status back to a delivery status.
func DecodeStatus(data StatusData) (types.DeliveryStatus, error) {
	status, err := types.ParseDeliveryStatus(data.Status, data.Acked, data.Total)
	if err != nil {
		return nil, err
	}
	if _, ok := status.(types.Failed); ok {
		return types.Failed{Reason: data.Reason}, nil
	}
	return status, nil
}

// RelayOptions configure a relay connection.
type RelayOptions struct {
	URL      string
	LocalID  types.PeerID
	Nickname string
	Dialer   *websocket.Dialer
}

// Relay bridges the client to a websocket relay that forwards frames between
// mesh peers.
type Relay struct {
	opts   RelayOptions
	roster *roster

	mu     sync.Mutex
	conn   *websocket.Conn
	send   chan Frame
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewRelay creates a relay client. Nothing is dialed until Start.
func NewRelay(opts RelayOptions) *Relay {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	return &Relay{opts: opts, roster: newRoster()}
}

func (r *Relay) Nicknames() map[types.PeerID]string { return r.roster.nicknames() }
func (r *Relay) Readings() map[types.PeerID]int     { return r.roster.readings() }
func (r *Relay) LocalPeerID() types.PeerID          { return r.opts.LocalID }

// Start dials the relay, sends hello, and starts the pumps.
func (r *Relay) Start(ctx context.Context, sink func(Event)) error {
	if r.opts.URL == "" {
		return errors.New("relay url is required")
	}
	conn, _, err := r.opts.Dialer.DialContext(ctx, r.opts.URL, nil)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	hello, err := NewFrame(OpHello, HelloData{PeerID: r.opts.LocalID, Nickname: r.opts.Nickname})
	if err != nil {
		conn.Close()
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return fmt.Errorf("send hello: %w", err)
	}

	pumpCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.conn = conn
	r.send = make(chan Frame, sendBufferSize)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.mu.Unlock()

	go r.writePump(pumpCtx)
	go r.readPump(pumpCtx, sink)
	log.Info().Str("url", r.opts.URL).Str("local", string(r.opts.LocalID)).Msg("relay connected")
	return nil
}

// Send forwards the message to the relay.
func (r *Relay) Send(ctx context.Context, out Outgoing) error {
	frame, err := NewFrame(OpMessage, MessageData{Scope: out.Scope, Message: out.Message})
	if err != nil {
		return err
	}
	return r.enqueue(ctx, frame)
}

// Announce tells the relay about a nickname change.
func (r *Relay) Announce(ctx context.Context, nickname string) error {
	frame, err := NewFrame(OpNickname, HelloData{PeerID: r.opts.LocalID, Nickname: nickname})
	if err != nil {
		return err
	}
	return r.enqueue(ctx, frame)
}

// Close stops the pumps and closes the socket.
func (r *Relay) Close() error {
	r.mu.Lock()
	if r.closed || r.conn == nil {
		r.closed = true
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	<-done
	return nil
}

func (r *Relay) enqueue(ctx context.Context, frame Frame) error {
	r.mu.Lock()
	send, closed := r.send, r.closed
	r.mu.Unlock()
	if send == nil {
		return ErrNotStarted
	}
	if closed {
		return errors.New("relay closed")
	}
	select {
	case send <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("relay send buffer full")
	}
}

func (r *Relay) readPump(ctx context.Context, sink func(Event)) {
	conn := r.conn
	defer r.cancel()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("relay closed unexpectedly")
			}
			return
		}
		for _, ev := range r.decode(frame) {
			if ctx.Err() != nil {
				return
			}
			sink(ev)
		}
	}
}

func (r *Relay) writePump(ctx context.Context) {
	conn := r.conn
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		close(r.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-r.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				log.Warn().Err(err).Str("op", frame.Op).Msg("relay write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// decode turns a frame into events and keeps the roster current.
func (r *Relay) decode(frame Frame) []Event {
	switch frame.Op {
	case OpPeers:
		var peers []types.Peer
		if !r.unmarshal(frame, &peers) {
			return nil
		}
		events := make([]Event, 0, len(peers))
		for _, peer := range peers {
			if peer.ID == r.opts.LocalID {
				continue
			}
			if r.roster.upsert(peer) {
				events = append(events, PeerJoined{Peer: peer})
			} else {
				events = append(events, PeerUpdated{Peer: peer})
			}
		}
		return events

	case OpPeerJoin, OpPeerUpdate:
		var peer types.Peer
		if !r.unmarshal(frame, &peer) || peer.ID == "" || peer.ID == r.opts.LocalID {
			return nil
		}
		if r.roster.upsert(peer) {
			return []Event{PeerJoined{Peer: peer}}
		}
		return []Event{PeerUpdated{Peer: peer}}

	case OpPeerLeave:
		var data HelloData
		if !r.unmarshal(frame, &data) {
			return nil
		}
		if r.roster.remove(data.PeerID) {
			return []Event{PeerLeft{ID: data.PeerID}}
		}
		return nil

	case OpMessage:
		var data MessageData
		if !r.unmarshal(frame, &data) || data.Message.ID == "" {
			return nil
		}
		return []Event{MessageReceived{Scope: data.Scope, Message: data.Message}}

	case OpStatus:
		var data StatusData
		if !r.unmarshal(frame, &data) {
			return nil
		}
		status, err := DecodeStatus(data)
		if err != nil {
			log.Warn().Err(err).Str("message_id", data.MessageID).Msg("bad status frame")
			return nil
		}
		return []Event{DeliveryUpdate{MessageID: data.MessageID, Status: status}}
	}

	log.Debug().Str("op", frame.Op).Msg("ignoring relay frame")
	return nil
}

func (r *Relay) unmarshal(frame Frame, v any) bool {
	if err := json.Unmarshal(frame.Data, v); err != nil {
		log.Warn().Err(err).Str("op", frame.Op).Msg("bad relay frame")
		return false
	}
	return true
}
