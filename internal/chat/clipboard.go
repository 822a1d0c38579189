package chat

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}

func (m *Model) copyCmd(text string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: copyText(text)}
	}
}
