package chat

import (
	"github.com/adamavenir/meshchat/internal/view"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"
)

func newInputModel(colors palette) textarea.Model {
	input := textarea.New()
	input.Placeholder = view.PlaceholderPublic
	input.Prompt = "> "
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(1)
	input.KeyMap.InsertNewline.SetKeys("alt+enter")
	applyInputStyles(&input, colors)
	input.Focus()
	return input
}

func applyInputStyles(input *textarea.Model, colors palette) {
	inputBg := colors.surface
	input.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colors.text).Background(inputBg)
	input.FocusedStyle.Text = lipgloss.NewStyle().Foreground(colors.text).Background(inputBg)
	input.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(colors.primary).Background(inputBg)
	input.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
	input.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colors.muted).Background(inputBg)
	input.BlurredStyle.Base = lipgloss.NewStyle().Foreground(colors.muted).Background(inputBg)
	input.BlurredStyle.Text = lipgloss.NewStyle().Foreground(colors.muted).Background(inputBg)
	input.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(colors.primary).Background(inputBg)
	input.BlurredStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
	input.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(colors.muted).Background(inputBg)
}
