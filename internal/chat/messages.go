package chat

import (
	"strings"

	"github.com/adamavenir/meshchat/internal/view"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) renderMessages() string {
	width := m.mainWidth()
	if len(m.screen.Messages) == 0 {
		hint := "no messages yet"
		if m.screen.Private {
			hint = "no private messages yet"
		}
		return lipgloss.NewStyle().Foreground(m.colors.muted).Italic(true).Render(" " + hint)
	}

	lines := make([]string, 0, len(m.screen.Messages))
	for _, row := range m.screen.Messages {
		lines = append(lines, m.zoneManager.Mark("msg-"+row.ID, m.formatMessage(row, width)))
	}
	return strings.Join(lines, "\n")
}

// formatMessage renders one row as "[HH:mm] (A) sender: content token".
func (m *Model) formatMessage(row view.MessageRow, width int) string {
	timeStyle := lipgloss.NewStyle().Foreground(m.colors.muted)
	stamp := timeStyle.Render("[" + row.Time + "]")

	if row.System {
		body := lipgloss.NewStyle().Foreground(m.colors.muted).Italic(true).Render("* " + row.Content + " *")
		return wrap(stamp+" "+body, width)
	}

	avatar := lipgloss.NewStyle().
		Foreground(m.colors.text).
		Background(m.colors.container).
		Render(" " + row.Avatar + " ")
	sender := lipgloss.NewStyle().Foreground(bandColor(row.Band)).Bold(true).Render(row.Sender + ":")
	content := lipgloss.NewStyle().Foreground(m.colors.text).Render(row.Content)

	line := stamp + " " + avatar + " " + sender + " " + content
	if row.HasToken {
		token := row.Token.Glyph
		if row.Token.Detail != "" {
			token += " " + row.Token.Detail
		}
		line += " " + lipgloss.NewStyle().Foreground(m.colors.roleColor(row.Token.Role)).Render(token)
	}
	return wrap(line, width)
}

// lastMessageText returns the content of the newest message in the active
// conversation.
func (m *Model) lastMessageText() (string, bool) {
	for i := len(m.screen.Messages) - 1; i >= 0; i-- {
		row := m.screen.Messages[i]
		if !row.System {
			return row.Content, true
		}
	}
	return "", false
}

func wrap(line string, width int) string {
	if width <= 0 {
		return line
	}
	return lipgloss.NewStyle().Width(width).Render(line)
}

func truncateLine(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
