package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// View renders the UI.
func (m *Model) View() string {
	statusLine := lipgloss.NewStyle().Foreground(m.colors.muted).Render(m.statusLine())

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		"", // margin
		m.renderInput(),
		statusLine,
	)

	output := main
	if m.sidebarOpen {
		if panel := m.renderSidebar(); panel != "" {
			output = lipgloss.JoinHorizontal(lipgloss.Top, panel, main)
		}
	}
	return m.zoneManager.Scan(output)
}

// renderHeader shows the conversation title, the unread badge and, in a
// private chat, the favorite star.
func (m *Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.colors.primary).Bold(true)
	left := titleStyle.Render(" " + m.screen.Title)
	if m.screen.Private {
		star := "☆"
		if m.screen.Favorite {
			star = "★"
		}
		left += " " + m.zoneManager.Mark("header-fav", lipgloss.NewStyle().Foreground(m.colors.primary).Render(star))
	}
	if m.screen.ShowBadge {
		badge := lipgloss.NewStyle().
			Foreground(m.colors.text).
			Background(m.colors.secondary).
			Bold(true).
			Render(" " + m.screen.Badge + " ")
		left += " " + badge
	}

	right := lipgloss.NewStyle().Foreground(m.colors.muted).Render(m.peerSummary() + " ")
	return alignStatusLine(left, right, m.mainWidth())
}

func (m *Model) peerSummary() string {
	switch n := len(m.screen.Peers); n {
	case 0:
		return "no peers"
	case 1:
		return "1 peer"
	default:
		return fmt.Sprintf("%d peers", n)
	}
}

func (m *Model) renderInput() string {
	content := m.input.View()
	style := lipgloss.NewStyle().Background(m.colors.surface).Padding(0, inputPadding, 0, 0)
	if width := m.mainWidth(); width > 0 {
		style = style.Width(width)
	}
	blank := style.Render("")
	return strings.Join([]string{blank, style.Render(content), blank}, "\n")
}

func (m *Model) statusLine() string {
	right := ""
	if m.input.Value() == "" {
		right = "/help · tab: sidebar"
	}
	left := m.snap.Nickname
	if left == "" {
		left = string(m.snap.LocalID)
	}
	if m.status != "" {
		left = fmt.Sprintf("%s · %s", m.status, left)
	}
	return alignStatusLine(" "+left, right, m.mainWidth())
}

func alignStatusLine(left, right string, width int) string {
	if width <= 0 || right == "" {
		return left
	}
	leftWidth := ansi.StringWidth(left)
	rightWidth := ansi.StringWidth(right)
	if leftWidth+rightWidth+1 > width {
		return left
	}
	spaces := width - leftWidth - rightWidth
	return left + strings.Repeat(" ", spaces) + right
}
