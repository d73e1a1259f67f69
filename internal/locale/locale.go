// Package locale holds the English and German display strings and question
// text for the assessment. Bundles are loaded once from embedded YAML.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "en"

// ErrUnknownLanguage is returned by Get for a language with no bundle.
var ErrUnknownLanguage = errors.New("unknown language")

//go:embed data/*.yaml
var dataFS embed.FS

type questionText struct {
	ID       int    `yaml:"id"`
	Category string `yaml:"category"`
	Scenario string `yaml:"scenario"`
	Context  string `yaml:"context"`
	A        string `yaml:"a"`
	B        string `yaml:"b"`
}

type bundleFile struct {
	Lang       string            `yaml:"lang"`
	Strings    map[string]string `yaml:"strings"`
	DateLayout string            `yaml:"date_layout"`
	Months     []string          `yaml:"months"`
	Questions  []questionText    `yaml:"questions"`
}

// Bundle is the localized text for one language.
type Bundle struct {
	lang       string
	strings    map[string]string
	dateLayout string
	months     []string
	catalog    *assessment.Catalog
}

var (
	loadOnce sync.Once
	bundles  map[string]*Bundle
	loadErr  error
)

func load() {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		loadErr = err
		return
	}
	bundles = make(map[string]*Bundle, len(entries))
	for _, e := range entries {
		data, err := dataFS.ReadFile("data/" + e.Name())
		if err != nil {
			loadErr = err
			return
		}
		b, err := parse(data)
		if err != nil {
			loadErr = fmt.Errorf("locale %s: %w", e.Name(), err)
			return
		}
		bundles[b.lang] = b
	}
}

func parse(data []byte) (*Bundle, error) {
	var f bundleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Lang == "" {
		return nil, errors.New("missing lang")
	}
	if f.DateLayout == "" {
		f.DateLayout = "January 02, 2006"
	}
	if len(f.Months) != 0 && len(f.Months) != 12 {
		return nil, fmt.Errorf("months: want 12 names, got %d", len(f.Months))
	}

	texts := make(map[int]questionText, len(f.Questions))
	for _, q := range f.Questions {
		texts[q.ID] = q
	}

	structure := assessment.Structure()
	qs := make([]assessment.Question, 0, len(structure))
	for _, q := range structure {
		t, ok := texts[q.ID]
		if !ok {
			return nil, fmt.Errorf("question %d: no text", q.ID)
		}
		q.Category = t.Category
		q.Scenario = t.Scenario
		q.Context = t.Context
		q.OptionA = t.A
		q.OptionB = t.B
		qs = append(qs, q)
		delete(texts, q.ID)
	}
	if len(texts) > 0 {
		return nil, fmt.Errorf("%d questions not in the assessment structure", len(texts))
	}

	catalog, err := assessment.NewCatalog(qs)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		lang:       f.Lang,
		strings:    f.Strings,
		dateLayout: f.DateLayout,
		months:     f.Months,
		catalog:    catalog,
	}, nil
}

// Get returns the bundle for lang ("en", "de"). An empty lang selects the
// default language.
func Get(lang string) (*Bundle, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return nil, loadErr
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = DefaultLanguage
	}
	b, ok := bundles[lang]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownLanguage, lang, strings.Join(Languages(), ", "))
	}
	return b, nil
}

// MustGet is Get for callers holding a language that was already validated.
func MustGet(lang string) *Bundle {
	b, err := Get(lang)
	if err != nil {
		panic(err)
	}
	return b
}

// Languages returns the available language codes, sorted.
func Languages() []string {
	loadOnce.Do(load)
	langs := make([]string, 0, len(bundles))
	for l := range bundles {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Lang returns the bundle's language code.
func (b *Bundle) Lang() string { return b.lang }

// Name is the English name of the language, used in prompts.
func (b *Bundle) Name() string { return b.Text("languageName") }

// Text returns the string for key, or the key itself when it has no entry.
func (b *Bundle) Text(key string) string {
	if s, ok := b.strings[key]; ok {
		return s
	}
	return key
}

// Has reports whether key has an entry.
func (b *Bundle) Has(key string) bool {
	_, ok := b.strings[key]
	return ok
}

func (b *Bundle) Trait(t assessment.Trait) string { return b.Text(t.String()) }

func (b *Bundle) Pattern(p assessment.StressPattern) string { return b.Text(p.String()) }

func (b *Bundle) Rule(r assessment.OperationalRule) string { return b.Text(r.String()) }

func (b *Bundle) Descriptor(d assessment.Descriptor) string { return b.Text(string(d)) }

func (b *Bundle) Dimension(d assessment.ContrastDimension) string { return b.Text(d.String()) }

func (b *Bundle) Intensity(i assessment.Intensity) string { return b.Text(i.Label()) }

// GroupTitle is the section heading for a trait group.
func (b *Bundle) GroupTitle(g assessment.TraitGroup) string {
	switch g {
	case assessment.Temperament:
		return b.Text("hardwareTitle")
	case assessment.ActionMode:
		return b.Text("osTitle")
	case assessment.CoreDriver:
		return b.Text("driversTitle")
	}
	return g.String()
}

// PhaseTitle returns the heading for a phase, e.g. "Phase 1: Discovery".
func (b *Bundle) PhaseTitle(p assessment.Phase) string {
	return b.Text(fmt.Sprintf("phase%dTitle", int(p)))
}

// PhaseDescription returns the one-line description of a phase.
func (b *Bundle) PhaseDescription(p assessment.Phase) string {
	return b.Text(fmt.Sprintf("phase%dDesc", int(p)))
}

// FormatDate renders t the way report headers show it, with localized
// month names.
func (b *Bundle) FormatDate(t time.Time) string {
	s := t.Format(b.dateLayout)
	if len(b.months) == 12 {
		s = strings.Replace(s, t.Month().String(), b.months[t.Month()-1], 1)
	}
	return s
}

// Catalog returns the question catalog with this bundle's text.
func (b *Bundle) Catalog() *assessment.Catalog { return b.catalog }

// RequiredKeys lists every string key the reports and commands look up.
func RequiredKeys() []string {
	keys := []string{
		"title", "subtitle", "formatNote", "formatDesc", "beginBtn", "choosePrompt",
		"slightly", "clearly", "strongly", "howStrongly", "back", "next",
		"pdfTitle", "pdfGenerated", "architecture", "hardwareTitle", "osTitle", "driversTitle",
		"contextualContrasts", "trait", "closeButNot", "clearlyNot",
		"darkSide", "identifiedDerailers", "environmentFit", "thrivesIn", "failsIn",
		"operationalRules", "rulesIntro", "disclaimer",
		"generateBtn", "generating", "startOver", "completeForAnalysis", "completePhase3",
		"languageName", "rule", "chapter", "question", "answered", "unanswered",
	}
	for _, p := range assessment.Phases() {
		keys = append(keys, fmt.Sprintf("phase%dTitle", int(p)), fmt.Sprintf("phase%dDesc", int(p)))
	}
	for _, t := range assessment.Traits() {
		keys = append(keys, t.String())
	}
	for _, p := range assessment.StressPatterns() {
		keys = append(keys, p.String())
	}
	for _, r := range assessment.OperationalRules() {
		keys = append(keys, r.String())
	}
	for _, d := range assessment.Descriptors() {
		keys = append(keys, string(d))
	}
	for _, d := range assessment.ContrastDimensions() {
		keys = append(keys, d.String())
	}
	return keys
}

// Missing returns the required keys this bundle has no entry for.
func (b *Bundle) Missing() []string {
	var missing []string
	for _, k := range RequiredKeys() {
		if !b.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}
