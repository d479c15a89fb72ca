package tui

import (
	"github.com/charmbracelet/lipgloss"

	"timed-quiz/internal/domain"
)

const (
	primaryColor   = "#7C3AED" // Purple
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
)

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	TimerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor)).
			Bold(true)
)

// paletteStyles colours question buttons by palette status.
var paletteStyles = map[string]lipgloss.Style{
	domain.PaletteCurrent:    lipgloss.NewStyle().Background(lipgloss.Color(primaryColor)).Foreground(lipgloss.Color("#FFFFFF")),
	domain.PaletteAnswered:   lipgloss.NewStyle().Foreground(lipgloss.Color(warningColor)),
	domain.PaletteUnanswered: DimStyle,
	domain.PalettePassed:     SuccessStyle,
	domain.PaletteFailed:     ErrorStyle,
}
