// Package report renders an analysis as a Markdown summary, a print-ready
// HTML page, or styled terminal output, and converts generated narratives
// to HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
)

// Bar draws a 10-cell score bar with the numeric score in bold.
func Bar(v int) string {
	filled := min(max(v, 0), assessment.MaxScore)
	return strings.Repeat("█", filled) + strings.Repeat("░", assessment.MaxScore-filled) + fmt.Sprintf(" **%d/10**", v)
}

// Markdown renders the summary document for result in the bundle's language.
func Markdown(result assessment.AnalysisResult, b *locale.Bundle, date time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n*%s %s*\n\n---\n\n", b.Text("pdfTitle"), b.Text("pdfGenerated"), b.FormatDate(date)))

	sb.WriteString(fmt.Sprintf("## %s\n", b.Text("architecture")))
	for _, g := range assessment.TraitGroups() {
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", b.GroupTitle(g)))
		for _, t := range g.Traits() {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", b.Trait(t), Bar(result.Traits.Get(t))))
		}
	}

	if len(result.Contrasts) > 0 {
		sb.WriteString(fmt.Sprintf("\n### %s\n\n", b.Text("contextualContrasts")))
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n|---|---|---|\n", b.Text("trait"), b.Text("closeButNot"), b.Text("clearlyNot")))
		for _, c := range result.Contrasts {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", b.Dimension(c.Dimension), b.Descriptor(c.CloseButNot), b.Descriptor(c.ClearlyNot)))
		}
	}

	sb.WriteString(fmt.Sprintf("\n---\n\n## %s\n\n", b.Text("darkSide")))
	if len(result.StressPatterns) == 0 {
		sb.WriteString(b.Text("completeForAnalysis") + "\n")
	}
	for _, p := range result.StressPatterns {
		sb.WriteString(fmt.Sprintf("- ⚠️ %s\n", b.Pattern(p)))
	}

	if len(result.Environment) > 0 {
		sb.WriteString(fmt.Sprintf("\n---\n\n## %s\n\n", b.Text("environmentFit")))
		sb.WriteString(fmt.Sprintf("| %s | %s |\n|---|---|\n", b.Text("thrivesIn"), b.Text("failsIn")))
		for _, e := range result.Environment {
			sb.WriteString(fmt.Sprintf("| ✅ %s | ❌ %s |\n", b.Descriptor(e.Thrives), b.Descriptor(e.Fails)))
		}
	}

	sb.WriteString(fmt.Sprintf("\n---\n\n## %s\n\n%s\n\n", b.Text("operationalRules"), b.Text("rulesIntro")))
	if len(result.OperationalRules) == 0 {
		sb.WriteString(b.Text("completePhase3") + "\n\n")
	}
	for i, r := range result.OperationalRules {
		sb.WriteString(fmt.Sprintf("### %s %d\n\n%s\n\n", b.Text("rule"), i+1, b.Rule(r)))
	}

	sb.WriteString(fmt.Sprintf("\n---\n\n*%s*", b.Text("disclaimer")))
	return sb.String()
}
