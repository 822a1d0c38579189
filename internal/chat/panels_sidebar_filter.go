package chat

func (m *Model) startSidebarFilter() {
	if !m.sidebarFilterActive {
		m.sidebarFilterActive = true
		m.sidebarFilter = ""
		m.sidebarScrollOffset = 0
	}
	m.updateSidebarMatches()
}

func (m *Model) resetSidebarFilter() {
	m.sidebarFilterActive = false
	m.sidebarFilter = ""
	m.sidebarScrollOffset = 0
	m.clampSidebarIndex()
}

// updateSidebarMatches moves the selection to the first match.
func (m *Model) updateSidebarMatches() {
	if !m.sidebarFilterActive {
		return
	}
	m.sidebarIndex = 0
	m.sidebarScrollOffset = 0
}
