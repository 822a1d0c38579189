package core

import (
	"testing"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/google/go-cmp/cmp"
)

func TestOrderedPeers(t *testing.T) {
	tests := []struct {
		name      string
		connected []types.PeerID
		nicknames map[types.PeerID]string
		want      []types.PeerID
	}{
		{
			name:      "sorted by nickname",
			connected: []types.PeerID{"p2", "p1"},
			nicknames: map[types.PeerID]string{"p1": "Zoe", "p2": "Amy"},
			want:      []types.PeerID{"p2", "p1"},
		},
		{
			name:      "falls back to id",
			connected: []types.PeerID{"zz", "aa", "mm"},
			nicknames: map[types.PeerID]string{"mm": "Bob"},
			want:      []types.PeerID{"mm", "aa", "zz"},
		},
		{
			name:      "case sensitive",
			connected: []types.PeerID{"p1", "p2"},
			nicknames: map[types.PeerID]string{"p1": "alice", "p2": "Bob"},
			want:      []types.PeerID{"p2", "p1"},
		},
		{
			name: "empty",
			want: []types.PeerID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderedPeers(tt.connected, lookup(tt.nicknames))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderedPeersDoesNotMutateInput(t *testing.T) {
	connected := []types.PeerID{"p2", "p1"}
	OrderedPeers(connected, lookup(map[types.PeerID]string{"p1": "a", "p2": "b"}))
	if connected[0] != "p2" {
		t.Fatal("input slice was reordered")
	}
}

func TestAvatarLabel(t *testing.T) {
	tests := map[string]string{
		"alice":  "A",
		"Bob":    "B",
		"":       "?",
		"élan":   "É",
		"9lives": "9",
	}
	for nickname, want := range tests {
		if got := AvatarLabel(nickname); got != want {
			t.Errorf("AvatarLabel(%q) = %q, want %q", nickname, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	names := lookup(map[types.PeerID]string{"p1": "alice", "p2": ""})
	if got := DisplayName("p1", names); got != "alice" {
		t.Errorf("got %q", got)
	}
	if got := DisplayName("p2", names); got != "p2" {
		t.Errorf("empty nickname: got %q", got)
	}
	if got := DisplayName("p3", names); got != "p3" {
		t.Errorf("unknown: got %q", got)
	}
}

func TestFilterPeers(t *testing.T) {
	peers := []types.PeerID{"p1", "p2", "p3"}
	names := lookup(map[types.PeerID]string{"p1": "alice", "p2": "Alan", "p3": "bob"})

	tests := []struct {
		pattern string
		want    []types.PeerID
	}{
		{"", peers},
		{"al", []types.PeerID{"p1", "p2"}},
		{"a*", []types.PeerID{"p1", "p2"}},
		{"?ob", []types.PeerID{"p3"}},
		{"zed", []types.PeerID{}},
	}
	for _, tt := range tests {
		got := FilterPeers(peers, names, tt.pattern)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("pattern %q mismatch (-want +got):\n%s", tt.pattern, diff)
		}
	}
}

func TestNameMatcher(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "anything", true},
		{"gen", "#General", true},
		{"#g*", "#general", true},
		{"x", "general", false},
	}
	for _, tt := range tests {
		if got := NameMatcher(tt.pattern)(tt.name); got != tt.want {
			t.Errorf("NameMatcher(%q)(%q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}
