package chat

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.handleSidebarKeys(msg); handled {
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() != "" {
			m.input.Reset()
			m.resize()
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyEsc:
		if _, ok := m.snap.Selection.Private(); ok {
			m.store.EndPrivateChat()
			return m, nil
		}
		m.status = ""
		return m, nil
	case tea.KeyEnter:
		if msg.Alt {
			break
		}
		return m, m.submit()
	case tea.KeyTab:
		return m, m.toggleSidebar()
	case tea.KeyCtrlY:
		text, ok := m.lastMessageText()
		if !ok {
			m.status = "nothing to copy"
			return m, nil
		}
		return m, m.copyCmd(text)
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.sidebarFocus {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.resize()
	return m, cmd
}
