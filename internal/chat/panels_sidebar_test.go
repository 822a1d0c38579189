package chat

import (
	"testing"

	"github.com/adamavenir/meshchat/internal/types"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func entryNames(entries []sidebarEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.peer != nil {
			names = append(names, e.peer.Name)
		} else {
			names = append(names, "#"+e.channel.Name)
		}
	}
	return names
}

func TestSidebarEntries(t *testing.T) {
	m, store, _ := newTestModel(t)
	if err := store.JoinChannel("general"); err != nil {
		t.Fatalf("join: %v", err)
	}
	m.sync()

	tests := []struct {
		name   string
		filter string
		active bool
		want   []string
	}{
		{"no filter", "", false, []string{"#general", "alice", "bob"}},
		{"inactive filter ignored", "bo", false, []string{"#general", "alice", "bob"}},
		{"substring", "bo", true, []string{"bob"}},
		{"channel glob", "#gen*", true, []string{"#general"}},
		{"no match", "zed", true, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.sidebarFilter = tt.filter
			m.sidebarFilterActive = tt.active
			if diff := cmp.Diff(tt.want, entryNames(m.sidebarEntries())); diff != "" {
				t.Fatalf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSidebarSelectOpensPrivateChat(t *testing.T) {
	m, store, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.sidebarOpen || !m.sidebarFocus {
		t.Fatal("tab should open and focus the sidebar")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if peer, ok := store.Snapshot().Selection.Private(); !ok || peer != types.PeerID("b2") {
		t.Fatalf("selection = %s", store.Snapshot().Selection)
	}
	if m.sidebarFocus {
		t.Fatal("selecting an entry should return focus to the input")
	}
}

func TestSidebarFilterKeys(t *testing.T) {
	m, store, favs := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("#")})
	if !m.sidebarFilterActive {
		t.Fatal("# should start the filter")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("al")})
	if diff := cmp.Diff([]string{"alice"}, entryNames(m.sidebarEntries())); diff != "" {
		t.Fatalf("filtered entries (-want +got):\n%s", diff)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.sidebarFilterActive || !m.sidebarOpen {
		t.Fatal("esc should clear the filter first")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if !favs["a1"] {
		t.Fatal("f should favorite the selected peer")
	}
	if !store.Snapshot().Selection.IsPublic() {
		t.Fatal("favoriting should not change the conversation")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.sidebarOpen {
		t.Fatal("second esc should close the sidebar")
	}
}

func TestRenderSignalBars(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.sidebarOpen = true
	out := m.renderSidebar()
	for _, want := range []string{"PEOPLE", "alice", "bob", "▂▄▆"} {
		if !containsPlain(out, want) {
			t.Errorf("sidebar missing %q", want)
		}
	}
}
