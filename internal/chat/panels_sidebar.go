package chat

import (
	"fmt"
	"strings"

	"github.com/adamavenir/meshchat/internal/core"
	"github.com/adamavenir/meshchat/internal/types"
	"github.com/adamavenir/meshchat/internal/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var signalBars = [core.MaxSignalTier]string{"▂", "▄", "▆"}

// sidebarEntry is one selectable sidebar row: a channel or a peer.
type sidebarEntry struct {
	channel *view.ChannelRow
	peer    *view.PeerRow
}

func (e sidebarEntry) zoneID() string {
	if e.peer != nil {
		return "peer-" + string(e.peer.ID)
	}
	return "channel-" + e.channel.Name
}

// sidebarEntries lists channels then peers, narrowed by the active filter.
func (m *Model) sidebarEntries() []sidebarEntry {
	pattern := ""
	if m.sidebarFilterActive {
		pattern = m.sidebarFilter
	}
	match := core.NameMatcher(pattern)

	entries := make([]sidebarEntry, 0, len(m.screen.Channels)+len(m.screen.Peers))
	for i := range m.screen.Channels {
		if match("#" + m.screen.Channels[i].Name) {
			entries = append(entries, sidebarEntry{channel: &m.screen.Channels[i]})
		}
	}

	rows := make(map[types.PeerID]*view.PeerRow, len(m.screen.Peers))
	ids := make([]types.PeerID, 0, len(m.screen.Peers))
	for i := range m.screen.Peers {
		row := &m.screen.Peers[i]
		rows[row.ID] = row
		ids = append(ids, row.ID)
	}
	nameOf := func(id types.PeerID) (string, bool) {
		row, ok := rows[id]
		if !ok {
			return "", false
		}
		return row.Name, true
	}
	for _, id := range core.FilterPeers(ids, nameOf, pattern) {
		entries = append(entries, sidebarEntry{peer: rows[id]})
	}
	return entries
}

func (m *Model) selectedSidebarEntry() (sidebarEntry, bool) {
	entries := m.sidebarEntries()
	if m.sidebarIndex < 0 || m.sidebarIndex >= len(entries) {
		return sidebarEntry{}, false
	}
	return entries[m.sidebarIndex], true
}

func (m *Model) clampSidebarIndex() {
	count := len(m.sidebarEntries())
	if m.sidebarIndex >= count {
		m.sidebarIndex = count - 1
	}
	if m.sidebarIndex < 0 {
		m.sidebarIndex = 0
	}
}

func (m *Model) moveSidebarSelection(delta int) {
	m.sidebarIndex += delta
	m.clampSidebarIndex()
}

// activateSidebarEntry opens the conversation behind entry.
func (m *Model) activateSidebarEntry(entry sidebarEntry) tea.Cmd {
	if entry.peer != nil {
		m.store.StartPrivateChat(entry.peer.ID)
	} else if entry.channel != nil {
		m.store.SwitchChannel(entry.channel.Name)
	}
	m.resetSidebarFilter()
	m.sidebarFocus = false
	m.resize()
	return m.updateInputFocus()
}

func (m *Model) renderSidebar() string {
	width := m.sidebarWidth()
	if width <= 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.colors.primary).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(m.colors.muted)
	activeStyle := lipgloss.NewStyle().Foreground(m.colors.text).Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(m.colors.text).Background(m.colors.container).Bold(true)
	unreadStyle := lipgloss.NewStyle().Foreground(m.colors.secondary).Bold(true)

	entries := m.sidebarEntries()
	start, end := m.visibleSidebarRange(len(entries))

	var lines []string
	if m.sidebarFilterActive {
		lines = append(lines, headerStyle.Render(fmt.Sprintf(" filter: %s", m.sidebarFilter)), "")
	}

	section := ""
	for i := start; i < end; i++ {
		entry := entries[i]
		heading := "PEOPLE"
		if entry.channel != nil {
			heading = "CHANNELS"
		}
		if heading != section {
			if section != "" {
				lines = append(lines, "")
			}
			lines = append(lines, headerStyle.Render(" "+heading))
			section = heading
		}

		style := itemStyle
		var line string
		if entry.channel != nil {
			if entry.channel.Active {
				style = activeStyle
			}
			line = truncateLine("#"+entry.channel.Name, width-6)
			if entry.channel.Unread > 0 {
				line += " " + unreadStyle.Render(fmt.Sprintf("%d", entry.channel.Unread))
			}
		} else {
			if entry.peer.Active {
				style = activeStyle
			}
			line = m.renderSignalBars(entry.peer.Tier, entry.peer.Band) + " " + truncateLine(entry.peer.Name, width-9)
			if entry.peer.Favorite {
				line += " " + lipgloss.NewStyle().Foreground(m.colors.primary).Render("★")
			}
			if entry.peer.Unread {
				line += " " + unreadStyle.Render("•")
			}
		}
		if i == m.sidebarIndex && m.sidebarFocus {
			style = selectedStyle
		}
		lines = append(lines, m.zoneManager.Mark(entry.zoneID(), style.Render(" "+line)))
	}

	if len(entries) == 0 {
		empty := " (no peers)"
		if m.sidebarFilterActive {
			empty = " (no matches)"
		}
		lines = append(lines, itemStyle.Render(empty))
	}

	if m.height > 0 {
		for len(lines) < m.height-1 {
			lines = append(lines, "")
		}
	}
	lines = append(lines, itemStyle.Render(" # - filter"))

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(width).Render(content)
}

// visibleSidebarRange keeps the selected entry on screen.
func (m *Model) visibleSidebarRange(total int) (int, int) {
	visible := m.height - 6 // headers, spacing and footer
	if visible < 1 || total <= visible {
		m.sidebarScrollOffset = 0
		return 0, total
	}
	if m.sidebarIndex < m.sidebarScrollOffset {
		m.sidebarScrollOffset = m.sidebarIndex
	}
	if m.sidebarIndex >= m.sidebarScrollOffset+visible {
		m.sidebarScrollOffset = m.sidebarIndex - visible + 1
	}
	maxScroll := total - visible
	if m.sidebarScrollOffset > maxScroll {
		m.sidebarScrollOffset = maxScroll
	}
	if m.sidebarScrollOffset < 0 {
		m.sidebarScrollOffset = 0
	}
	return m.sidebarScrollOffset, m.sidebarScrollOffset + visible
}

func (m *Model) renderSignalBars(tier int, band core.SignalBand) string {
	lit := lipgloss.NewStyle().Foreground(bandColor(band))
	dim := lipgloss.NewStyle().Foreground(m.colors.container)
	var b strings.Builder
	for i, bar := range signalBars {
		if i < tier {
			b.WriteString(lit.Render(bar))
		} else {
			b.WriteString(dim.Render(bar))
		}
	}
	return b.String()
}
