package output

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

// TraitBar renders a 10-cell bar for a 1-10 trait score in the group's
// color. Example: "████████░░  8/10"
func TraitBar(g assessment.TraitGroup, score int) string {
	filled := min(max(score, 0), assessment.MaxScore)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", assessment.MaxScore-filled)
	if style, ok := groupStyles[g]; ok {
		bar = style.Render(bar)
	}
	return fmt.Sprintf("%s %s", bar, StyleMuted.Render(fmt.Sprintf("%2d/10", score)))
}

// DeltaArrow returns a styled indicator for a change in a trait score.
func DeltaArrow(delta int) string {
	switch {
	case delta > 0:
		return StyleSuccess.Render(fmt.Sprintf("▲ +%d", delta))
	case delta < 0:
		return StyleError.Render(fmt.Sprintf("▼ %d", delta))
	default:
		return StyleMuted.Render("─")
	}
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// Bullet renders an indented list item.
func Bullet(marker, text string) string {
	return fmt.Sprintf("  %s %s", marker, text)
}
