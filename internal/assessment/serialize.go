package assessment

import (
	"fmt"
	"strings"
)

// SerializeForNarrative renders one line per answered question, in catalog
// order, carrying both option texts, the chosen letter and the intensity
// label. Unanswered questions are left out.
//
//	Q21 [Stress - Volatility]: Scenario: ... | A: "..." | B: "..." | CHOSE: A (strongly)
func SerializeForNarrative(answers *Answers, catalog *Catalog) string {
	lines := make([]string, 0, answers.Len())
	for _, q := range catalog.questions {
		ans, ok := answers.Get(q.ID)
		if !ok {
			continue
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Q%d [%s]: ", q.ID, q.Category))
		if q.Scenario != "" {
			sb.WriteString(fmt.Sprintf("Scenario: %s | ", q.Scenario))
		}
		if q.Context != "" {
			sb.WriteString(fmt.Sprintf("Context: %s | ", q.Context))
		}
		sb.WriteString(fmt.Sprintf("A: \"%s\" | B: \"%s\" | CHOSE: %s (%s)", q.OptionA, q.OptionB, ans.Choice, ans.Intensity.Label()))
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// LabelSet maps pattern and rule enums to display text.
type LabelSet interface {
	Pattern(p StressPattern) string
	Rule(r OperationalRule) string
}

// SerializeScores renders the score block that accompanies the answer lines
// in a narrative prompt. A nil labels falls back to the stable keys.
func SerializeScores(result AnalysisResult, labels LabelSet) string {
	groupTitles := map[TraitGroup]string{
		Temperament: "Big Five (1-10)",
		ActionMode:  "Action Modes (1-10)",
		CoreDriver:  "Drivers (1-10)",
	}

	var sb strings.Builder
	for _, g := range TraitGroups() {
		parts := make([]string, 0, 5)
		for _, t := range g.Traits() {
			parts = append(parts, fmt.Sprintf("%s=%d", t.PromptName(), result.Traits.Get(t)))
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", groupTitles[g], strings.Join(parts, ", ")))
	}

	patterns := make([]string, 0, len(result.StressPatterns))
	for _, p := range result.StressPatterns {
		if labels != nil {
			patterns = append(patterns, labels.Pattern(p))
		} else {
			patterns = append(patterns, p.String())
		}
	}
	rules := make([]string, 0, len(result.OperationalRules))
	for _, r := range result.OperationalRules {
		if labels != nil {
			rules = append(rules, labels.Rule(r))
		} else {
			rules = append(rules, r.String())
		}
	}

	sb.WriteString(fmt.Sprintf("Stress Patterns: %s\n", orNone(strings.Join(patterns, ", "))))
	sb.WriteString(fmt.Sprintf("Rules: %s", orNone(strings.Join(rules, " | "))))
	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
