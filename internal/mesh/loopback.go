package mesh

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotStarted is returned when a transport is used before Start.
var ErrNotStarted = errors.New("transport not started")

// LoopbackOptions configure the simulated mesh.
type LoopbackOptions struct {
	LocalID types.PeerID
	Peers   []types.Peer
	// Step is the delay between delivery stages.
	Step time.Duration
	// Drift is how often a peer's signal reading wanders. Zero disables it.
	Drift time.Duration
	Seed  uint64
	// Replies makes private chat peers answer each message.
	Replies bool
}

// DefaultLoopbackPeers is the demo roster.
func DefaultLoopbackPeers() []types.Peer {
	return []types.Peer{
		{ID: "a1f3", Nickname: "alice", RSSI: -48},
		{ID: "b7c2", Nickname: "bob", RSSI: -66},
		{ID: "c9e0", Nickname: "carol", RSSI: -83},
		{ID: "d4d4", RSSI: -95},
	}
}

// Loopback is an in-process mesh with simulated peers. It acknowledges
// outgoing messages on a timer so the client can be exercised without radio
// hardware.
type Loopback struct {
	opts   LoopbackOptions
	roster *roster

	mu       sync.Mutex
	sink     func(Event)
	ctx      context.Context
	cancel   context.CancelFunc
	rng      *rand.Rand
	nickname string

	wg sync.WaitGroup
}

// NewLoopback creates a simulated mesh.
func NewLoopback(opts LoopbackOptions) *Loopback {
	if opts.LocalID == "" {
		opts.LocalID = types.PeerID(uuid.NewString()[:8])
	}
	if opts.Step <= 0 {
		opts.Step = 400 * time.Millisecond
	}
	return &Loopback{
		opts:   opts,
		roster: newRoster(),
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
}

func (l *Loopback) Nicknames() map[types.PeerID]string { return l.roster.nicknames() }
func (l *Loopback) Readings() map[types.PeerID]int     { return l.roster.readings() }
func (l *Loopback) LocalPeerID() types.PeerID          { return l.opts.LocalID }

// Start connects the simulated peers.
func (l *Loopback) Start(ctx context.Context, sink func(Event)) error {
	l.mu.Lock()
	if l.sink != nil {
		l.mu.Unlock()
		return errors.New("loopback already started")
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.sink = sink
	l.mu.Unlock()

	for _, peer := range l.opts.Peers {
		l.roster.upsert(peer)
		l.emit(PeerJoined{Peer: peer})
	}
	if l.opts.Drift > 0 {
		l.wg.Add(1)
		go l.driftLoop()
	}
	log.Info().Str("local", string(l.opts.LocalID)).Int("peers", len(l.opts.Peers)).Msg("loopback mesh started")
	return nil
}

// Send schedules delivery progress for the message.
func (l *Loopback) Send(_ context.Context, out Outgoing) error {
	l.mu.Lock()
	ctx := l.ctx
	l.mu.Unlock()
	if ctx == nil {
		return ErrNotStarted
	}
	if out.Message.ID == "" {
		return errors.New("outgoing message has no id")
	}

	stages := l.stagesFor(out.Scope)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for _, status := range stages {
			if !l.sleep(ctx) {
				return
			}
			l.emit(DeliveryUpdate{MessageID: out.Message.ID, Status: status})
		}
		if l.opts.Replies && out.Scope.Kind == types.ScopeKindPrivate {
			if !l.sleep(ctx) {
				return
			}
			l.reply(out)
		}
	}()
	return nil
}

// Announce records the local nickname.
func (l *Loopback) Announce(_ context.Context, nickname string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx == nil {
		return ErrNotStarted
	}
	l.nickname = nickname
	return nil
}

// Close stops all timers and waits for them to exit.
func (l *Loopback) Close() error {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
	return nil
}

func (l *Loopback) stagesFor(scope types.Scope) []types.DeliveryStatus {
	if scope.Kind == types.ScopeKindPrivate {
		if _, ok := l.roster.get(scope.Peer); !ok {
			return []types.DeliveryStatus{types.Failed{Reason: "peer unreachable"}}
		}
		return []types.DeliveryStatus{types.Sent{}, types.Delivered{}, types.Read{}}
	}
	n := l.roster.len()
	switch {
	case n == 0:
		return []types.DeliveryStatus{types.Sent{}}
	case n == 1:
		return []types.DeliveryStatus{types.Sent{}, types.Delivered{}}
	default:
		return []types.DeliveryStatus{
			types.Sent{},
			types.PartiallyDelivered{Acked: n - 1, Total: n},
			types.Delivered{},
		}
	}
}

func (l *Loopback) reply(out Outgoing) {
	peer, ok := l.roster.get(out.Scope.Peer)
	if !ok {
		return
	}
	id := peer.ID
	l.emit(MessageReceived{
		Scope: out.Scope,
		Message: types.Message{
			ID:           uuid.NewString(),
			Sender:       peer.DisplayName(),
			SenderPeerID: &id,
			Content:      fmt.Sprintf("got it: %s", out.Message.Content),
			Timestamp:    time.Now(),
		},
	})
}

func (l *Loopback) driftLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.opts.Drift)
	defer ticker.Stop()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			peers := l.roster.list()
			if len(peers) == 0 {
				continue
			}
			l.mu.Lock()
			peer := peers[l.rng.IntN(len(peers))]
			peer.RSSI = clampRSSI(peer.RSSI + l.rng.IntN(11) - 5)
			l.mu.Unlock()
			l.roster.upsert(peer)
			l.emit(PeerUpdated{Peer: peer})
		}
	}
}

func (l *Loopback) sleep(ctx context.Context) bool {
	timer := time.NewTimer(l.opts.Step)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (l *Loopback) emit(ev Event) {
	l.mu.Lock()
	sink := l.sink
	ctx := l.ctx
	l.mu.Unlock()
	if sink == nil || ctx.Err() != nil {
		return
	}
	sink(ev)
}

func clampRSSI(rssi int) int {
	if rssi > -30 {
		return -30
	}
	if rssi < -100 {
		return -100
	}
	return rssi
}
