// Package assessment implements the scoring engine: the question catalog, the
// answer store, trait aggregation, and the stress-pattern and operational-rule
// lookup tables. Everything here is a pure function of its inputs and operates
// on question ids and choice letters, never on translated text.
package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors returned when an answer cannot be constructed.
var (
	ErrInvalidChoice    = errors.New("choice must be A or B")
	ErrInvalidIntensity = errors.New("intensity must be 1, 2 or 3")
	ErrUnknownQuestion  = errors.New("unknown question")
)

// Choice is the letter picked for a forced-choice question.
type Choice uint8

const (
	ChoiceA Choice = iota + 1
	ChoiceB
)

// String returns "A" or "B", or "" for the zero value.
func (c Choice) String() string {
	switch c {
	case ChoiceA:
		return "A"
	case ChoiceB:
		return "B"
	default:
		return ""
	}
}

// Valid reports whether c is A or B.
func (c Choice) Valid() bool {
	return c == ChoiceA || c == ChoiceB
}

// ParseChoice accepts "A" or "B" in either case.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return ChoiceA, nil
	case "B":
		return ChoiceB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Choice) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrInvalidChoice
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Choice) UnmarshalText(text []byte) error {
	parsed, err := ParseChoice(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Intensity is the 1-3 strength rating attached to a choice.
type Intensity uint8

const (
	Slightly Intensity = 1
	Clearly  Intensity = 2
	Strongly Intensity = 3
)

// Valid reports whether i is in {1,2,3}.
func (i Intensity) Valid() bool {
	return i >= Slightly && i <= Strongly
}

// Label returns the lowercase English word used in narrative prompts.
func (i Intensity) Label() string {
	switch i {
	case Slightly:
		return "slightly"
	case Clearly:
		return "clearly"
	case Strongly:
		return "strongly"
	default:
		return ""
	}
}

// Answer is a complete response to one question. Construct it through
// NewAnswer or Answers.Set; both reject out-of-range values.
type Answer struct {
	Choice    Choice    `json:"choice" yaml:"choice"`
	Intensity Intensity `json:"intensity" yaml:"intensity"`
}

// NewAnswer validates choice and intensity and returns the Answer.
func NewAnswer(choice Choice, intensity int) (Answer, error) {
	if !choice.Valid() {
		return Answer{}, ErrInvalidChoice
	}
	if intensity < int(Slightly) || intensity > int(Strongly) {
		return Answer{}, fmt.Errorf("%w: got %d", ErrInvalidIntensity, intensity)
	}
	return Answer{Choice: choice, Intensity: Intensity(intensity)}, nil
}

// Answers maps question ids to answers. The zero value is an empty store
// ready for use, and a nil *Answers reads as empty.
type Answers struct {
	byID map[int]Answer
}

// NewAnswers returns an empty store.
func NewAnswers() *Answers {
	return &Answers{byID: make(map[int]Answer)}
}

// Set records an answer, replacing any previous one for the same question.
func (a *Answers) Set(questionID int, choice Choice, intensity int) error {
	if questionID <= 0 {
		return fmt.Errorf("%w: id %d", ErrUnknownQuestion, questionID)
	}
	ans, err := NewAnswer(choice, intensity)
	if err != nil {
		return fmt.Errorf("question %d: %w", questionID, err)
	}
	if a.byID == nil {
		a.byID = make(map[int]Answer)
	}
	a.byID[questionID] = ans
	return nil
}

// Clear removes the answer for questionID, if any.
func (a *Answers) Clear(questionID int) {
	if a == nil {
		return
	}
	delete(a.byID, questionID)
}

// Get returns the answer for questionID and whether it exists.
func (a *Answers) Get(questionID int) (Answer, bool) {
	if a == nil {
		return Answer{}, false
	}
	ans, ok := a.byID[questionID]
	return ans, ok
}

// Choice returns the chosen letter, or false when the question is unanswered.
func (a *Answers) Choice(questionID int) (Choice, bool) {
	ans, ok := a.Get(questionID)
	return ans.Choice, ok
}

// Intensity returns the stored intensity, or 0 when unanswered.
func (a *Answers) Intensity(questionID int) int {
	ans, ok := a.Get(questionID)
	if !ok {
		return 0
	}
	return int(ans.Intensity)
}

// Len returns the number of answered questions.
func (a *Answers) Len() int {
	if a == nil {
		return 0
	}
	return len(a.byID)
}

// IDs returns the answered question ids in ascending order.
func (a *Answers) IDs() []int {
	if a == nil {
		return nil
	}
	ids := make([]int, 0, len(a.byID))
	for id := range a.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns an independent copy of the store.
func (a *Answers) Clone() *Answers {
	out := NewAnswers()
	if a == nil {
		return out
	}
	for id, ans := range a.byID {
		out.byID[id] = ans
	}
	return out
}

// Map returns a copy of the answers keyed by question id.
func (a *Answers) Map() map[int]Answer {
	out := make(map[int]Answer, a.Len())
	if a == nil {
		return out
	}
	for id, ans := range a.byID {
		out[id] = ans
	}
	return out
}

// AnswersFromMap validates every entry of m and returns the store.
func AnswersFromMap(m map[int]Answer) (*Answers, error) {
	out := NewAnswers()
	for id, ans := range m {
		if err := out.Set(id, ans.Choice, int(ans.Intensity)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MarshalJSON encodes the answers as an object keyed by question id.
func (a *Answers) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Map())
}

func (a *Answers) UnmarshalJSON(data []byte) error {
	var m map[int]Answer
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := AnswersFromMap(m)
	if err != nil {
		return err
	}
	a.byID = parsed.byID
	return nil
}
