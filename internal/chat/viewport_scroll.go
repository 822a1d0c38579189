package chat

import "github.com/charmbracelet/lipgloss"

func (m *Model) refreshViewport(scrollToBottom bool) {
	content := m.renderMessages()
	// Keep content taller than the viewport; an exact height match cuts off
	// the first line in the bubbletea renderer.
	contentHeight := lipgloss.Height(content)
	if contentHeight > 0 && contentHeight <= m.viewport.Height {
		content = "\n" + content
	}
	m.viewport.SetContent(content)
	if scrollToBottom {
		m.viewport.GotoBottom()
		return
	}
	if m.viewport.Height <= 0 {
		return
	}
	maxOffset := lipgloss.Height(content) - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.viewport.YOffset > maxOffset {
		m.viewport.SetYOffset(maxOffset)
	}
}
