package chat

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) handleSidebarKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !m.sidebarOpen {
		return false, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		if m.sidebarFilterActive {
			m.resetSidebarFilter()
			return true, nil
		}
		if m.sidebarFocus {
			return true, m.closePanels()
		}
		return false, nil
	}

	if !m.sidebarFocus {
		return false, nil
	}

	if !m.sidebarFilterActive {
		if msg.Type == tea.KeySpace || (msg.Type == tea.KeyRunes && !msg.Paste && msg.String() == "#") {
			m.startSidebarFilter()
			return true, nil
		}
	}

	if m.sidebarFilterActive {
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyCtrlH:
			if m.sidebarFilter != "" {
				runes := []rune(m.sidebarFilter)
				m.sidebarFilter = string(runes[:len(runes)-1])
			}
			m.updateSidebarMatches()
			return true, nil
		case tea.KeyRunes:
			if msg.Paste {
				return true, nil
			}
			m.sidebarFilter += string(msg.Runes)
			m.updateSidebarMatches()
			return true, nil
		}
	} else {
		switch msg.String() {
		case "j":
			m.moveSidebarSelection(1)
			return true, nil
		case "k":
			m.moveSidebarSelection(-1)
			return true, nil
		case "f":
			entry, ok := m.selectedSidebarEntry()
			if ok && entry.peer != nil {
				m.toggleFavorite(entry.peer.ID)
			}
			return true, nil
		}
	}

	switch msg.Type {
	case tea.KeyUp:
		m.moveSidebarSelection(-1)
		return true, nil
	case tea.KeyDown:
		m.moveSidebarSelection(1)
		return true, nil
	case tea.KeyEnter:
		if entry, ok := m.selectedSidebarEntry(); ok {
			return true, m.activateSidebarEntry(entry)
		}
		return true, nil
	}

	return false, nil
}
