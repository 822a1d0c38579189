package mesh

import (
	"sync"

	"github.com/adamavenir/meshchat/internal/types"
)

// roster is the peer table shared by the adapters. Directory lookups copy
// out of it so callers never hold the lock.
type roster struct {
	mu    sync.RWMutex
	peers map[types.PeerID]types.Peer
}

func newRoster() *roster {
	return &roster{peers: make(map[types.PeerID]types.Peer)}
}

// upsert stores a peer and reports whether it was new.
func (r *roster) upsert(peer types.Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, existed := r.peers[peer.ID]
	r.peers[peer.ID] = peer
	return !existed
}

func (r *roster) remove(id types.PeerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[id]; !ok {
		return false
	}
	delete(r.peers, id)
	return true
}

func (r *roster) get(id types.PeerID) (types.Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	peer, ok := r.peers[id]
	return peer, ok
}

func (r *roster) list() []types.Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Peer, 0, len(r.peers))
	for _, peer := range r.peers {
		out = append(out, peer)
	}
	return out
}

func (r *roster) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}

func (r *roster) nicknames() map[types.PeerID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[types.PeerID]string, len(r.peers))
	for id, peer := range r.peers {
		if peer.Nickname != "" {
			out[id] = peer.Nickname
		}
	}
	return out
}

func (r *roster) readings() map[types.PeerID]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[types.PeerID]int, len(r.peers))
	for id, peer := range r.peers {
		out[id] = peer.RSSI
	}
	return out
}
