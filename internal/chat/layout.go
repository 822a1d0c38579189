package chat

import tea "github.com/charmbracelet/bubbletea"

const inputMaxHeight = 8
const inputPadding = 1

func (m *Model) sidebarWidth() int {
	if !m.sidebarOpen {
		return 0
	}
	return 24
}

func (m *Model) mainWidth() int {
	if m.width == 0 {
		return 0
	}
	width := m.width - m.sidebarWidth()
	if width < 1 {
		width = 1
	}
	return width
}

// toggleSidebar opens and focuses the sidebar, or closes it when it already
// has focus.
func (m *Model) toggleSidebar() tea.Cmd {
	if m.sidebarOpen && m.sidebarFocus {
		return m.closePanels()
	}
	m.sidebarOpen = true
	m.sidebarFocus = true
	m.clampSidebarIndex()
	m.resize()
	return m.updateInputFocus()
}

func (m *Model) closePanels() tea.Cmd {
	m.sidebarOpen = false
	m.sidebarFocus = false
	m.resetSidebarFilter()
	m.resize()
	return m.updateInputFocus()
}

func (m *Model) updateInputFocus() tea.Cmd {
	if m.sidebarFocus {
		m.input.Blur()
		return nil
	}
	return m.input.Focus()
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	width := m.mainWidth()
	inputWidth := width - inputPadding
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.SetWidth(inputWidth)
	lineCount := m.input.LineCount()
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > inputMaxHeight {
		lineCount = inputMaxHeight
	}
	m.input.SetHeight(lineCount)
	inputHeight := m.input.Height() + 2

	headerHeight := 1
	statusHeight := 1
	marginHeight := 1
	m.viewport.Width = width
	m.viewport.Height = m.height - headerHeight - inputHeight - statusHeight - marginHeight
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	if m.initialScroll {
		m.refreshViewport(true)
		m.initialScroll = false
		return
	}
	m.refreshViewport(false)
}
