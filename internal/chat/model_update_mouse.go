package chat

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Shift {
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if handled, cmd := m.handleMouseClick(msg); handled {
			return m, cmd
		}
	}

	isWheelUp := msg.Button == tea.MouseButtonWheelUp
	isWheelDown := msg.Button == tea.MouseButtonWheelDown
	if (isWheelUp || isWheelDown) && m.sidebarOpen && msg.X < m.sidebarWidth() {
		if isWheelUp {
			m.moveSidebarSelection(-1)
		} else {
			m.moveSidebarSelection(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleMouseClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	if m.screen.Private && m.zoneManager.Get("header-fav").InBounds(msg) {
		if peer, ok := m.snap.Selection.Private(); ok {
			m.toggleFavorite(peer)
		}
		return true, nil
	}

	if m.sidebarOpen && msg.X < m.sidebarWidth() {
		for i, entry := range m.sidebarEntries() {
			if m.zoneManager.Get(entry.zoneID()).InBounds(msg) {
				m.sidebarIndex = i
				return true, m.activateSidebarEntry(entry)
			}
		}
		return true, nil
	}

	for _, row := range m.screen.Messages {
		if m.zoneManager.Get("msg-" + row.ID).InBounds(msg) {
			return true, m.copyCmd(row.Content)
		}
	}
	return false, nil
}
