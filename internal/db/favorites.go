package db

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/rs/zerolog/log"
)

// FavoritesStore serves favorite lookups from memory and writes through to
// sqlite. It satisfies core.Favorites.
type FavoritesStore struct {
	db *sql.DB

	mu         sync.RWMutex
	cache      map[types.PeerID]struct{}
	nicknameOf func(types.PeerID) string
}

// NewFavoritesStore loads the current favorites.
func NewFavoritesStore(db *sql.DB) (*FavoritesStore, error) {
	s := &FavoritesStore{db: db}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetNicknameLookup sets how nicknames are recorded when a peer is faved.
func (s *FavoritesStore) SetNicknameLookup(fn func(types.PeerID) string) {
	s.mu.Lock()
	s.nicknameOf = fn
	s.mu.Unlock()
}

// Refresh reloads the cache from the database.
func (s *FavoritesStore) Refresh() error {
	faves, err := GetFavorites(s.db)
	if err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	cache := make(map[types.PeerID]struct{}, len(faves))
	for _, f := range faves {
		cache[f.PeerID] = struct{}{}
	}
	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()
	return nil
}

// IsFavorite reports whether the peer is faved.
func (s *FavoritesStore) IsFavorite(peer types.PeerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cache[peer]
	return ok
}

// ToggleFavorite flips the peer's favorite flag and returns the new value.
func (s *FavoritesStore) ToggleFavorite(peer types.PeerID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[peer]; ok {
		if _, err := RemoveFavorite(s.db, peer); err != nil {
			return true, err
		}
		delete(s.cache, peer)
		log.Debug().Str("peer", string(peer)).Msg("unfaved peer")
		return false, nil
	}

	var nickname string
	if s.nicknameOf != nil {
		nickname = s.nicknameOf(peer)
	}
	if _, err := AddFavorite(s.db, peer, nickname); err != nil {
		return false, err
	}
	s.cache[peer] = struct{}{}
	log.Debug().Str("peer", string(peer)).Msg("faved peer")
	return true, nil
}
