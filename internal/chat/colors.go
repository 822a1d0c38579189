package chat

import (
	"github.com/adamavenir/meshchat/internal/config"
	"github.com/adamavenir/meshchat/internal/core"
	"github.com/charmbracelet/lipgloss"
)

// palette is a terminal rendition of the app's color scheme.
type palette struct {
	primary    lipgloss.Color
	secondary  lipgloss.Color
	text       lipgloss.Color
	muted      lipgloss.Color
	surface    lipgloss.Color
	container  lipgloss.Color
	errorColor lipgloss.Color
	read       lipgloss.Color
}

var darkPalette = palette{
	primary:    lipgloss.Color("#E5B865"),
	secondary:  lipgloss.Color("#C0523C"),
	text:       lipgloss.Color("#D5D5D5"),
	muted:      lipgloss.Color("245"),
	surface:    lipgloss.Color("#2C2C2E"),
	container:  lipgloss.Color("#454545"),
	errorColor: lipgloss.Color("#CF6679"),
	read:       lipgloss.Color("#007AFF"),
}

var lightPalette = palette{
	primary:    lipgloss.Color("#B07F2E"),
	secondary:  lipgloss.Color("#C0523C"),
	text:       lipgloss.Color("#1F1F1F"),
	muted:      lipgloss.Color("243"),
	surface:    lipgloss.Color("#FFFFFF"),
	container:  lipgloss.Color("#E8E8E8"),
	errorColor: lipgloss.Color("#B00020"),
	read:       lipgloss.Color("#007AFF"),
}

func paletteFor(theme string) palette {
	if theme == config.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// roleColor resolves a delivery token's color role.
func (p palette) roleColor(role core.ColorRole) lipgloss.Color {
	switch role {
	case core.RolePrimary:
		return p.primary
	case core.RoleAccent:
		return p.read
	case core.RoleError:
		return p.errorColor
	default:
		return p.muted
	}
}

func bandColor(band core.SignalBand) lipgloss.Color {
	return lipgloss.Color(band.Hex())
}
