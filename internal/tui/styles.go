package tui

import "github.com/charmbracelet/lipgloss"

// Palette for the browse screen. ANSI 256 codes degrade to plain text on
// terminals without color.
const (
	ColorHeader    = lipgloss.Color("39")
	ColorHighlight = lipgloss.Color("212")
	ColorMuted     = lipgloss.Color("245")
	ColorError     = lipgloss.Color("196")
	ColorLiked     = lipgloss.Color("204")
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	staleStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorError)
	statusStyle   = lipgloss.NewStyle().Foreground(ColorLiked)
)
