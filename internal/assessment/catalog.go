package assessment

import (
	"fmt"
	"strconv"
)

// Phase is one of the three ordered sections of the questionnaire.
type Phase int

const (
	PhaseDiscovery Phase = iota + 1
	PhaseStressTesting
	PhaseSolutionDesign
)

// Phases returns the phases in assessment order.
func Phases() []Phase {
	return []Phase{PhaseDiscovery, PhaseStressTesting, PhaseSolutionDesign}
}

func (p Phase) String() string {
	switch p {
	case PhaseDiscovery:
		return "discovery"
	case PhaseStressTesting:
		return "stressTesting"
	case PhaseSolutionDesign:
		return "solutionDesign"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase resolves a phase key.
func ParsePhase(s string) (Phase, error) {
	for _, p := range Phases() {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Question is an immutable catalog entry. Only ID participates in scoring;
// the text fields are display data filled in from a locale bundle.
type Question struct {
	ID       int    `json:"id"`
	Phase    Phase  `json:"phase"`
	Category string `json:"category"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	Scenario string `json:"scenario,omitempty"`
	Context  string `json:"context,omitempty"`
}

// Catalog is the ordered question list with an id index.
type Catalog struct {
	questions []Question
	index     map[int]int
}

// NewCatalog validates qs and builds a Catalog. Ids must be positive,
// unique and ascending, and phases must appear in assessment order.
func NewCatalog(qs []Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, len(qs)),
		index:     make(map[int]int, len(qs)),
	}
	copy(c.questions, qs)

	prevID := 0
	prevPhase := Phase(0)
	for i, q := range c.questions {
		if q.ID <= 0 {
			return nil, fmt.Errorf("question at position %d: id must be positive, got %d", i, q.ID)
		}
		if q.ID <= prevID {
			return nil, fmt.Errorf("question %d: ids must be unique and ascending (previous %d)", q.ID, prevID)
		}
		if q.Phase < PhaseDiscovery || q.Phase > PhaseSolutionDesign {
			return nil, fmt.Errorf("question %d: invalid phase %d", q.ID, q.Phase)
		}
		if q.Phase < prevPhase {
			return nil, fmt.Errorf("question %d: phase %s follows %s", q.ID, q.Phase, prevPhase)
		}
		c.index[q.ID] = i
		prevID = q.ID
		prevPhase = q.Phase
	}
	return c, nil
}

// Questions returns a copy of every question in assessment order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Lookup returns the question with the given id.
func (c *Catalog) Lookup(id int) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id int) bool {
	_, ok := c.index[id]
	return ok
}

// ByPhase returns the questions of one phase in order.
func (c *Catalog) ByPhase(p Phase) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Phase == p {
			out = append(out, q)
		}
	}
	return out
}

// IDs returns every question id in order.
func (c *Catalog) IDs() []int {
	out := make([]int, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.ID
	}
	return out
}

// Position returns the zero-based position of id in the sequence, or -1.
func (c *Catalog) Position(id int) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Unanswered returns the ids in the catalog that have no answer yet.
func (c *Catalog) Unanswered(answers *Answers) []int {
	var out []int
	for _, q := range c.questions {
		if _, ok := answers.Get(q.ID); !ok {
			out = append(out, q.ID)
		}
	}
	return out
}

// Structure returns the text-free question list: every id with its phase.
// Locale bundles merge category and option text onto it.
func Structure() []Question {
	return []Question{
		{ID: 1, Phase: PhaseDiscovery},
		{ID: 2, Phase: PhaseDiscovery},
		{ID: 3, Phase: PhaseDiscovery},
		{ID: 4, Phase: PhaseDiscovery},
		{ID: 5, Phase: PhaseDiscovery},
		{ID: 6, Phase: PhaseDiscovery},
		{ID: 7, Phase: PhaseDiscovery},
		{ID: 8, Phase: PhaseDiscovery},
		{ID: 9, Phase: PhaseDiscovery},
		{ID: 10, Phase: PhaseDiscovery},
		{ID: 11, Phase: PhaseDiscovery},
		{ID: 12, Phase: PhaseDiscovery},
		{ID: 13, Phase: PhaseDiscovery},
		{ID: 14, Phase: PhaseDiscovery},
		{ID: 15, Phase: PhaseDiscovery},
		{ID: 16, Phase: PhaseDiscovery},
		{ID: 17, Phase: PhaseDiscovery},
		{ID: 18, Phase: PhaseDiscovery},
		{ID: 19, Phase: PhaseDiscovery},
		{ID: 20, Phase: PhaseDiscovery},

		{ID: 21, Phase: PhaseStressTesting},
		{ID: 22, Phase: PhaseStressTesting},
		{ID: 23, Phase: PhaseStressTesting},
		{ID: 24, Phase: PhaseStressTesting},
		{ID: 25, Phase: PhaseStressTesting},
		{ID: 26, Phase: PhaseStressTesting},
		{ID: 27, Phase: PhaseStressTesting},
		{ID: 28, Phase: PhaseStressTesting},
		{ID: 29, Phase: PhaseStressTesting},
		{ID: 30, Phase: PhaseStressTesting},
		{ID: 31, Phase: PhaseStressTesting},
		{ID: 32, Phase: PhaseStressTesting},
		{ID: 33, Phase: PhaseStressTesting},
		{ID: 34, Phase: PhaseStressTesting},
		{ID: 35, Phase: PhaseStressTesting},

		{ID: 36, Phase: PhaseSolutionDesign},
		{ID: 37, Phase: PhaseSolutionDesign},
		{ID: 38, Phase: PhaseSolutionDesign},
		{ID: 39, Phase: PhaseSolutionDesign},
		{ID: 40, Phase: PhaseSolutionDesign},
		{ID: 41, Phase: PhaseSolutionDesign},
		{ID: 42, Phase: PhaseSolutionDesign},
		{ID: 43, Phase: PhaseSolutionDesign},
	}
}

// StructureCatalog returns a Catalog over Structure() with no display text.
func StructureCatalog() *Catalog {
	c, err := NewCatalog(Structure())
	if err != nil {
		panic(fmt.Sprintf("assessment: invalid built-in structure: %v", err))
	}
	return c
}
