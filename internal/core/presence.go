package core

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/gobwas/glob"
)

// Favorites is the read-through contract of the favorites store.
type Favorites interface {
	IsFavorite(peer types.PeerID) bool
	ToggleFavorite(peer types.PeerID) (bool, error)
}

// DisplayName returns the peer's nickname, or its ID when none is known.
func DisplayName(peer types.PeerID, nicknameOf func(types.PeerID) (string, bool)) string {
	if name, ok := nicknameOf(peer); ok && name != "" {
		return name
	}
	return string(peer)
}

// OrderedPeers sorts connected peers by display name, case-sensitive.
// The input slice is not modified.
func OrderedPeers(connected []types.PeerID, nicknameOf func(types.PeerID) (string, bool)) []types.PeerID {
	ordered := make([]types.PeerID, len(connected))
	copy(ordered, connected)
	sort.SliceStable(ordered, func(i, j int) bool {
		return DisplayName(ordered[i], nicknameOf) < DisplayName(ordered[j], nicknameOf)
	})
	return ordered
}

// AvatarLabel is the upper-cased first character of a nickname, or "?".
func AvatarLabel(nickname string) string {
	r, _ := utf8.DecodeRuneInString(nickname)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

// FilterPeers keeps peers whose display name matches pattern. A pattern with
// no glob metacharacters matches as a case-insensitive substring.
func FilterPeers(peers []types.PeerID, nicknameOf func(types.PeerID) (string, bool), pattern string) []types.PeerID {
	if strings.TrimSpace(pattern) == "" {
		return peers
	}
	match := NameMatcher(pattern)
	out := make([]types.PeerID, 0, len(peers))
	for _, peer := range peers {
		if match(DisplayName(peer, nicknameOf)) {
			out = append(out, peer)
		}
	}
	return out
}

// NameMatcher compiles a sidebar filter pattern. An empty pattern matches
// everything; an invalid one matches nothing.
func NameMatcher(pattern string) func(name string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return func(string) bool { return true }
	}
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}
	matcher, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return func(string) bool { return false }
	}
	return func(name string) bool {
		return matcher.Match(strings.ToLower(name))
	}
}
