// Package state owns the client's conversation state. A Store is the only
// writer; readers take immutable Snapshots and subscribe for change
// notifications.
package state

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adamavenir/meshchat/internal/core"
	"github.com/adamavenir/meshchat/internal/mesh"
	"github.com/adamavenir/meshchat/internal/router"
	"github.com/adamavenir/meshchat/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoTransport is returned when a command needs the mesh but none is attached.
	ErrNoTransport = errors.New("no mesh transport attached")
	// ErrNoFavorites is returned by ToggleFavorite without a favorites store.
	ErrNoFavorites = errors.New("no favorites store attached")
)

// Snapshot is a point-in-time view of the conversation state. Maps and slices
// in a published Snapshot are never mutated.
type Snapshot struct {
	Version   uint64
	Nickname  string
	LocalID   types.PeerID
	Selection types.Selection

	Connected []types.PeerID
	Joined    []string

	Public   []types.Message
	Channels map[string][]types.Message
	Private  map[types.PeerID][]types.Message

	UnreadPrivate  map[types.PeerID]struct{}
	UnreadChannels map[string]int
}

// Active returns the message sequence for the current selection.
func (s Snapshot) Active() []types.Message {
	return router.ResolveActiveMessages(s.Selection, s.Public, s.Channels, s.Private)
}

// IsJoined reports whether the channel is in the joined list.
func (s Snapshot) IsJoined(name string) bool {
	return slices.Contains(s.Joined, name)
}

// IsMine reports whether msg was sent by this client.
func (s Snapshot) IsMine(msg types.Message) bool {
	return msg.SenderPeerID != nil && *msg.SenderPeerID == s.LocalID && !msg.IsSystem()
}

// Options configure a Store.
type Options struct {
	Transport mesh.Transport
	Favorites core.Favorites
	Nickname  string
	// SaveNickname persists nickname changes. Optional.
	SaveNickname func(string) error
	// OnPrivateMessage is called for private messages that arrive while
	// another conversation is active. Optional.
	OnPrivateMessage func(from types.PeerID, msg types.Message)
	Now              func() time.Time
	NewID            func() string
}

// Store serializes every state mutation.
type Store struct {
	opts Options

	mu   sync.Mutex
	snap Snapshot
	// previous is restored by EndPrivateChat.
	previous types.Selection
	// outgoing maps IDs of messages this client sent to their scope.
	outgoing map[string]types.Scope
	ctx      context.Context

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewStore creates a store with the public conversation selected.
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	var local types.PeerID
	if opts.Transport != nil {
		local = opts.Transport.LocalPeerID()
	}
	return &Store{
		opts: opts,
		snap: Snapshot{
			Nickname:       opts.Nickname,
			LocalID:        local,
			Selection:      types.PublicSelection(),
			Public:         []types.Message{},
			Channels:       map[string][]types.Message{},
			Private:        map[types.PeerID][]types.Message{},
			UnreadPrivate:  map[types.PeerID]struct{}{},
			UnreadChannels: map[string]int{},
		},
		outgoing: map[string]types.Scope{},
		ctx:      context.Background(),
		subs:     map[int]chan struct{}{},
	}
}

// Start connects the transport and routes its events into the store.
func (s *Store) Start(ctx context.Context) error {
	if s.opts.Transport == nil {
		return ErrNoTransport
	}
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	if err := s.opts.Transport.Start(ctx, s.HandleEvent); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	return nil
}

// Directory exposes the transport's peer lookups, or nil.
func (s *Store) Directory() mesh.Directory {
	if s.opts.Transport == nil {
		return nil
	}
	return s.opts.Transport
}

// Favorites returns the attached favorites store, or nil.
func (s *Store) Favorites() core.Favorites {
	return s.opts.Favorites
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe returns a channel that receives a value after each change.
// Notifications coalesce: a slow reader sees one pending value, not a
// backlog. Call cancel to unsubscribe.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// update runs fn on a copy of the snapshot and publishes the result.
// fn returns false to discard the copy.
func (s *Store) update(fn func(next *Snapshot) bool) bool {
	s.mu.Lock()
	next := s.snap
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	next.Version = s.snap.Version + 1
	s.snap = next
	s.mu.Unlock()
	s.notify()
	return true
}

// Send posts text to the active conversation. Blank text is discarded and
// Send returns false.
func (s *Store) Send(text string) bool {
	content, ok := core.NormalizeOutgoing(text)
	if !ok {
		return false
	}

	var out mesh.Outgoing
	var ctx context.Context
	s.update(func(next *Snapshot) bool {
		local := next.LocalID
		msg := types.Message{
			ID:           s.opts.NewID(),
			Sender:       next.Nickname,
			SenderPeerID: &local,
			Content:      content,
			Timestamp:    s.opts.Now(),
			Status:       types.Sending{},
		}
		out = mesh.Outgoing{Scope: types.ScopeFor(next.Selection), Message: msg}
		s.outgoing[msg.ID] = out.Scope
		appendMessage(next, out.Scope, msg)
		ctx = s.ctx
		return true
	})

	if s.opts.Transport == nil {
		s.fail(out.Message.ID, ErrNoTransport)
		return true
	}
	go func() {
		if err := s.opts.Transport.Send(ctx, out); err != nil {
			s.fail(out.Message.ID, err)
		}
	}()
	return true
}

func (s *Store) fail(id string, err error) {
	log.Warn().Err(err).Str("message_id", id).Msg("send failed")
	s.HandleEvent(mesh.DeliveryUpdate{MessageID: id, Status: types.Failed{Reason: err.Error()}})
}

// SetNickname changes and persists the local nickname and announces it to
// the mesh.
func (s *Store) SetNickname(nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return errors.New("nickname cannot be empty")
	}
	if s.opts.SaveNickname != nil {
		if err := s.opts.SaveNickname(nickname); err != nil {
			return fmt.Errorf("save nickname: %w", err)
		}
	}
	var ctx context.Context
	s.update(func(next *Snapshot) bool {
		next.Nickname = nickname
		ctx = s.ctx
		return true
	})
	if s.opts.Transport == nil {
		return nil
	}
	if err := s.opts.Transport.Announce(ctx, nickname); err != nil {
		return fmt.Errorf("announce nickname: %w", err)
	}
	return nil
}

// SwitchChannel selects a channel, joining it first if needed. An empty name
// selects the public conversation.
func (s *Store) SwitchChannel(name string) {
	name = core.NormalizeChannelName(name)
	s.update(func(next *Snapshot) bool {
		if name == "" {
			next.Selection = types.PublicSelection()
			return true
		}
		join(next, name)
		next.Selection = types.ChannelSelection(name)
		clearChannelUnread(next, name)
		return true
	})
}

// JoinChannel joins and selects a channel.
func (s *Store) JoinChannel(name string) error {
	name = core.NormalizeChannelName(name)
	if name == "" {
		return errors.New("channel name cannot be empty")
	}
	s.update(func(next *Snapshot) bool {
		if join(next, name) {
			appendMessage(next, types.ScopeChannel(name), s.systemMessage("joined #"+name))
		}
		next.Selection = types.ChannelSelection(name)
		clearChannelUnread(next, name)
		return true
	})
	return nil
}

// LeaveChannel drops a joined channel and its messages. Leaving the active
// channel returns to the public conversation.
func (s *Store) LeaveChannel(name string) error {
	name = core.NormalizeChannelName(name)
	left := s.update(func(next *Snapshot) bool {
		idx := slices.Index(next.Joined, name)
		if idx < 0 {
			return false
		}
		next.Joined = slices.Delete(slices.Clone(next.Joined), idx, idx+1)
		next.Channels = maps.Clone(next.Channels)
		delete(next.Channels, name)
		clearChannelUnread(next, name)
		if active, ok := next.Selection.Channel(); ok && active == name {
			next.Selection = types.PublicSelection()
		}
		return true
	})
	if !left {
		return fmt.Errorf("not in channel #%s", name)
	}
	return nil
}

// StartPrivateChat selects the private conversation with peer and marks it
// read.
func (s *Store) StartPrivateChat(peer types.PeerID) {
	if peer == "" {
		return
	}
	s.update(func(next *Snapshot) bool {
		if _, already := next.Selection.Private(); !already {
			s.previous = next.Selection
		}
		next.Selection = types.PrivateSelection(peer)
		if _, ok := next.Private[peer]; !ok {
			next.Private = maps.Clone(next.Private)
			next.Private[peer] = []types.Message{}
		}
		if _, ok := next.UnreadPrivate[peer]; ok {
			next.UnreadPrivate = maps.Clone(next.UnreadPrivate)
			delete(next.UnreadPrivate, peer)
		}
		return true
	})
}

// EndPrivateChat returns to the conversation that was active before the
// private chat started.
func (s *Store) EndPrivateChat() {
	s.update(func(next *Snapshot) bool {
		if _, ok := next.Selection.Private(); !ok {
			return false
		}
		next.Selection = types.PublicSelection()
		if name, ok := s.previous.Channel(); ok && next.IsJoined(name) {
			next.Selection = s.previous
			clearChannelUnread(next, name)
		}
		s.previous = types.PublicSelection()
		return true
	})
}

// ToggleFavorite flips the favorite flag of peer.
func (s *Store) ToggleFavorite(peer types.PeerID) (bool, error) {
	if s.opts.Favorites == nil {
		return false, ErrNoFavorites
	}
	faved, err := s.opts.Favorites.ToggleFavorite(peer)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	// Favorites live outside the snapshot; bump the version so views refresh.
	s.update(func(*Snapshot) bool { return true })
	return faved, nil
}

// AddNotice appends a local system message to the active conversation.
func (s *Store) AddNotice(text string) {
	s.update(func(next *Snapshot) bool {
		appendMessage(next, types.ScopeFor(next.Selection), s.systemMessage(text))
		return true
	})
}

// HandleEvent applies a transport event. It is safe to call from any
// goroutine.
func (s *Store) HandleEvent(ev mesh.Event) {
	switch e := ev.(type) {
	case mesh.PeerJoined:
		s.update(func(next *Snapshot) bool {
			return connect(next, e.Peer.ID)
		})
	case mesh.PeerUpdated:
		// Nickname and signal changes live in the directory; refresh views.
		s.update(func(next *Snapshot) bool {
			connect(next, e.Peer.ID)
			return true
		})
	case mesh.PeerLeft:
		s.update(func(next *Snapshot) bool {
			idx := slices.Index(next.Connected, e.ID)
			if idx < 0 {
				return false
			}
			next.Connected = slices.Delete(slices.Clone(next.Connected), idx, idx+1)
			return true
		})
	case mesh.MessageReceived:
		s.receive(e)
	case mesh.DeliveryUpdate:
		s.applyStatus(e)
	default:
		log.Debug().Type("event", ev).Msg("ignoring mesh event")
	}
}

func (s *Store) receive(e mesh.MessageReceived) {
	var notifyFrom *types.PeerID
	s.update(func(next *Snapshot) bool {
		switch e.Scope.Kind {
		case types.ScopeKindChannel:
			if !next.IsJoined(e.Scope.Channel) {
				log.Debug().Str("channel", e.Scope.Channel).Msg("dropping message for unjoined channel")
				return false
			}
		case types.ScopeKindPrivate:
			if e.Scope.Peer == "" {
				return false
			}
		}
		if containsID(scopeMessages(next, e.Scope), e.Message.ID) {
			return false
		}
		msg := e.Message
		msg.Status = nil
		appendMessage(next, e.Scope, msg)

		switch e.Scope.Kind {
		case types.ScopeKindPrivate:
			if active, ok := next.Selection.Private(); !ok || active != e.Scope.Peer {
				next.UnreadPrivate = maps.Clone(next.UnreadPrivate)
				next.UnreadPrivate[e.Scope.Peer] = struct{}{}
				peer := e.Scope.Peer
				notifyFrom = &peer
			}
		case types.ScopeKindChannel:
			if active, ok := next.Selection.Channel(); !ok || active != e.Scope.Channel {
				next.UnreadChannels = maps.Clone(next.UnreadChannels)
				next.UnreadChannels[e.Scope.Channel]++
			}
		}
		return true
	})
	if notifyFrom != nil && s.opts.OnPrivateMessage != nil {
		s.opts.OnPrivateMessage(*notifyFrom, e.Message)
	}
}

func (s *Store) applyStatus(e mesh.DeliveryUpdate) {
	s.update(func(next *Snapshot) bool {
		scope, ok := s.outgoing[e.MessageID]
		if !ok {
			log.Debug().Str("message_id", e.MessageID).Msg("status for unknown message")
			return false
		}
		current := scopeMessages(next, scope)
		idx := slices.IndexFunc(current, func(m types.Message) bool { return m.ID == e.MessageID })
		if idx < 0 {
			return false
		}
		if !types.CanTransition(current[idx].Status, e.Status) {
			log.Debug().
				Str("message_id", e.MessageID).
				Str("from", statusName(current[idx].Status)).
				Str("to", statusName(e.Status)).
				Msg("ignoring out-of-order delivery status")
			return false
		}
		updated := slices.Clone(current)
		updated[idx] = updated[idx].WithStatus(e.Status)
		setScopeMessages(next, scope, updated)
		return true
	})
}

func (s *Store) systemMessage(text string) types.Message {
	return types.Message{
		ID:        s.opts.NewID(),
		Sender:    types.SystemSender,
		Content:   text,
		Timestamp: s.opts.Now(),
	}
}

func connect(next *Snapshot, id types.PeerID) bool {
	if id == "" || slices.Contains(next.Connected, id) {
		return false
	}
	next.Connected = append(slices.Clone(next.Connected), id)
	return true
}

func join(next *Snapshot, name string) bool {
	if next.IsJoined(name) {
		return false
	}
	next.Joined = append(slices.Clone(next.Joined), name)
	if _, ok := next.Channels[name]; !ok {
		next.Channels = maps.Clone(next.Channels)
		next.Channels[name] = []types.Message{}
	}
	return true
}

func clearChannelUnread(next *Snapshot, name string) {
	if _, ok := next.UnreadChannels[name]; !ok {
		return
	}
	next.UnreadChannels = maps.Clone(next.UnreadChannels)
	delete(next.UnreadChannels, name)
}

func scopeMessages(snap *Snapshot, scope types.Scope) []types.Message {
	switch scope.Kind {
	case types.ScopeKindChannel:
		return snap.Channels[scope.Channel]
	case types.ScopeKindPrivate:
		return snap.Private[scope.Peer]
	default:
		return snap.Public
	}
}

func setScopeMessages(snap *Snapshot, scope types.Scope, messages []types.Message) {
	switch scope.Kind {
	case types.ScopeKindChannel:
		snap.Channels = maps.Clone(snap.Channels)
		snap.Channels[scope.Channel] = messages
	case types.ScopeKindPrivate:
		snap.Private = maps.Clone(snap.Private)
		snap.Private[scope.Peer] = messages
	default:
		snap.Public = messages
	}
}

func appendMessage(snap *Snapshot, scope types.Scope, msg types.Message) {
	setScopeMessages(snap, scope, append(slices.Clone(scopeMessages(snap, scope)), msg))
}

func containsID(messages []types.Message, id string) bool {
	return id != "" && slices.ContainsFunc(messages, func(m types.Message) bool { return m.ID == id })
}

func statusName(status types.DeliveryStatus) string {
	if status == nil {
		return "none"
	}
	return status.Name()
}
