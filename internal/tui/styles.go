package tui

import "github.com/charmbracelet/lipgloss"

// Constantes de layout.
const (
	SidebarWidth      = 30
	TextareaHeight    = 3
	MinViewportHeight = 1
	HeaderHeight      = 1
	FooterHeight      = 1
)

// Paleta de colores.
var (
	primaryColor = lipgloss.Color("#7C3AED")
	accentColor  = lipgloss.Color("#06B6D4")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	textColor    = lipgloss.Color("#F9FAFB")
	dimColor     = lipgloss.Color("#9CA3AF")
	borderColor  = lipgloss.Color("#4B5563")
)

// Barra lateral.
var (
	sidebarStyle = lipgloss.NewStyle().
			Width(SidebarWidth).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(borderColor).
			PaddingRight(1)

	sidebarTitleStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(primaryColor).
				Bold(true).
				Padding(0, 1)

	chatRowStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	chatRowActiveStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Bold(true).
				PaddingLeft(1)

	chatRowCursorStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true).
				PaddingLeft(1)
)

// Cabecera y burbujas.
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	bubbleErrorStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Italic(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(accentColor)
)

// Entrada, avisos y confirmación.
var (
	textAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			PaddingLeft(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(1, 2)

	confirmTitleStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)
)

// truncate recorta una cadena para la barra lateral.
func truncate(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
