package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
)

//go:embed templates/summary.html.tmpl
var summaryTemplate string

var summaryTmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(summaryTemplate))

// groupColors are the bar colors per trait group.
var groupColors = map[assessment.TraitGroup]template.CSS{
	assessment.Temperament: "#3b82f6",
	assessment.ActionMode:  "#a855f7",
	assessment.CoreDriver:  "#ec4899",
}

type barView struct {
	Label string
	Value int
	Pct   int
	Color template.CSS
}

type groupView struct {
	Title string
	Bars  []barView
}

type envView struct {
	Thrives, Fails string
}

type summaryView struct {
	Lang, Title, Generated, Date       string
	Architecture                       string
	Groups                             []groupView
	DarkSide, Derailers                string
	Patterns                           []string
	NoPatterns                         string
	EnvironmentFit, ThrivesIn, FailsIn string
	Environment                        []envView
	RulesTitle, RulesIntro, RuleLabel  string
	Rules                              []string
	NoRules                            string
	Disclaimer                         string
}

// HTML renders a standalone, print-ready summary page.
func HTML(result assessment.AnalysisResult, b *locale.Bundle, date time.Time) (string, error) {
	v := summaryView{
		Lang:           b.Lang(),
		Title:          b.Text("pdfTitle"),
		Generated:      b.Text("pdfGenerated"),
		Date:           b.FormatDate(date),
		Architecture:   b.Text("architecture"),
		DarkSide:       b.Text("darkSide"),
		Derailers:      b.Text("identifiedDerailers"),
		NoPatterns:     b.Text("completeForAnalysis"),
		EnvironmentFit: b.Text("environmentFit"),
		ThrivesIn:      b.Text("thrivesIn"),
		FailsIn:        b.Text("failsIn"),
		RulesTitle:     b.Text("operationalRules"),
		RulesIntro:     b.Text("rulesIntro"),
		RuleLabel:      b.Text("rule"),
		NoRules:        b.Text("completePhase3"),
		Disclaimer:     b.Text("disclaimer"),
	}
	for _, g := range assessment.TraitGroups() {
		gv := groupView{Title: b.GroupTitle(g)}
		for _, t := range g.Traits() {
			val := result.Traits.Get(t)
			gv.Bars = append(gv.Bars, barView{Label: b.Trait(t), Value: val, Pct: val * 10, Color: groupColors[g]})
		}
		v.Groups = append(v.Groups, gv)
	}
	for _, p := range result.StressPatterns {
		v.Patterns = append(v.Patterns, b.Pattern(p))
	}
	for _, e := range result.Environment {
		v.Environment = append(v.Environment, envView{Thrives: b.Descriptor(e.Thrives), Fails: b.Descriptor(e.Fails)})
	}
	for _, r := range result.OperationalRules {
		v.Rules = append(v.Rules, b.Rule(r))
	}

	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("rendering summary: %w", err)
	}
	return buf.String(), nil
}
