// Package output provides styled terminal rendering helpers for usermanual.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for high scores and upward changes.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for low scores and downward changes.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for stress patterns.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")

	// Trait group colors, shared with the HTML report.
	ColorTemperament = lipgloss.Color("#3b82f6")
	ColorActionMode  = lipgloss.Color("#a855f7")
	ColorDriver      = lipgloss.Color("#ec4899")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader lipgloss.Style

	// StyleSuccess is used for positive values.
	StyleSuccess lipgloss.Style

	// StyleError is used for negative values.
	StyleError lipgloss.Style

	// StyleWarning is used for cautionary values.
	StyleWarning lipgloss.Style

	// StyleMuted is used for de-emphasized text.
	StyleMuted lipgloss.Style

	// StyleBold is used for emphasized text.
	StyleBold lipgloss.Style

	// StyleLabel is used for trait labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for scores.
	StyleValue lipgloss.Style

	groupStyles map[assessment.TraitGroup]lipgloss.Style
)

func init() {
	applyStyles(true)
}

func applyStyles(color bool) {
	if !color {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleSuccess = plain
		StyleError = plain
		StyleWarning = plain
		StyleMuted = plain
		StyleBold = plain
		StyleLabel = plain.Width(32)
		StyleValue = plain.Width(6)
		groupStyles = map[assessment.TraitGroup]lipgloss.Style{}
		return
	}
	StyleHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleLabel = lipgloss.NewStyle().Width(32)
	StyleValue = lipgloss.NewStyle().Bold(true).Width(6)
	groupStyles = map[assessment.TraitGroup]lipgloss.Style{
		assessment.Temperament: lipgloss.NewStyle().Foreground(ColorTemperament),
		assessment.ActionMode:  lipgloss.NewStyle().Foreground(ColorActionMode),
		assessment.CoreDriver:  lipgloss.NewStyle().Foreground(ColorDriver),
	}
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(!disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// AutoColor disables color when f is not a terminal or NO_COLOR is set.
// It reports whether color remains enabled.
func AutoColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		SetNoColor(true)
	}
	return !noColor
}
