// Package narrative turns a session's serialized answers and scores into a
// long-form report, one chapter per text-generation call.
package narrative

import (
	"fmt"
	"strings"
)

// Chapter is one section of the narrative.
type Chapter struct {
	// Lead is the sentence that opens the chapter's instruction.
	Lead    string
	Heading string
	// Gap separates Heading from Instruction.
	Gap         string
	Instruction string
}

const (
	leadFirst  = "Write ONLY (max 300 words):"
	leadSecond = "Write ONLY (max 300 words). No title/summary."
	leadRest   = "Write ONLY (max 300 words). No prior sections."
	leadLast   = "Write ONLY (max 250 words). No prior sections."
)

var chapters = []Chapter{
	{leadFirst, "# Deep Psychometric Analysis\n\n## 1. Executive Summary", "\n",
		"2 paragraphs: who this person is, their central paradox, what makes their combination unique. Bold and specific."},
	{leadSecond, "## 2. Temperament: Openness & Conscientiousness", "\n\n",
		`1 focused paragraph per trait: score meaning, how they interact, "close but not you". No fluff.`},
	{leadRest, "## (continued) Extraversion, Agreeableness & Stability", "\n\n",
		`1 focused paragraph per trait: score meaning, interactions, "close but not you".`},
	{leadRest, "## 3. Operating System: Action Modes", "\n\n",
		"1 paragraph covering all four action mode dimensions (Research Drive, Systems Drive, Launch Drive, Build Drive): their instinctive approach, what happens when forced against it, how it connects to temperament."},
	{leadRest, "## 4. The Drivers: What Fuels and What Drains", "\n\n",
		"Dominant driver, key tension between drivers, what happens when starved. Concrete, no theory."},
	{leadRest, "## 5. The Dark Side: Derailers Under Pressure", "\n\n",
		"Name the pattern, trigger sequence, how it manifests, the cost, one early warning sign."},
	{leadRest, "## 6. Core Paradoxes", "\n\n",
		"2 paradoxes max. Name each, explain friction, show superpower vs liability. Brief."},
	{leadRest, "## 7. Environment Fit", "\n\n",
		"Ideal org/role, 3 red flags, boss type, team dynamics. Bullet-style density, no padding."},
	{leadRest, "## 8. Operational Rules", "\n\n",
		"3 rules. Each: bold name, one sentence why, one sentence implementation, circuit breaker phrase. Tight."},
	{leadLast, "## 9. Who You Are at Your Best", "\n\n",
		"1-2 paragraphs: peak performance portrait. What it looks like when all systems align. End strong. FINISH the final sentence completely."},
}

// Chapters returns the chapter plan in order.
func Chapters() []Chapter {
	out := make([]Chapter, len(chapters))
	copy(out, chapters)
	return out
}

var restrictedNames = []string{
	"Kolbe", "Hogan", "HDS", "NEO-PI-R", "MBTI", "Myers-Briggs",
	"DISC", "StrengthsFinder", "CliftonStrengths", "Enneagram",
}

// BaseContext is the shared preamble of every chapter prompt: role, output
// language, naming rules, then the serialized answers and scores.
func BaseContext(languageName, data, scores string) string {
	quoted := make([]string, len(restrictedNames))
	for i, n := range restrictedNames {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	names := strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a world-class Psychometric Analyst. Write in %s. ", languageName))
	sb.WriteString("Be personal, reference specific answers. No filler, no generic advice. ")
	sb.WriteString("Direct style like a trusted advisor. HARD LIMIT: Stay under 300 words. Complete every sentence.\n\n")
	sb.WriteString(fmt.Sprintf("IMPORTANT: Never use trademarked assessment names. Never write %s as product names. ", names))
	sb.WriteString(`Use our own terms: "Research Drive", "Systems Drive", "Launch Drive", "Build Drive" for action modes. `)
	sb.WriteString(`Say "Big Five" or "Five Factor" for temperament (these are academic, not trademarked). `)
	sb.WriteString(`Say "action modes" not "Kolbe modes". Say "stress derailers" not "HDS scales".`)
	sb.WriteString("\n\nDATA:\n")
	sb.WriteString(data)
	sb.WriteString("\n\nSCORES:\n")
	sb.WriteString(scores)
	return sb.String()
}

// Prompt is the full text sent for one chapter.
func (c Chapter) Prompt(base string) string {
	return base + "\n\n" + c.Lead + "\n\n" + c.Heading + c.Gap + c.Instruction
}

// BuildPrompts returns one prompt per chapter.
func BuildPrompts(languageName, data, scores string) []string {
	base := BaseContext(languageName, data, scores)
	prompts := make([]string, len(chapters))
	for i, c := range chapters {
		prompts[i] = c.Prompt(base)
	}
	return prompts
}
