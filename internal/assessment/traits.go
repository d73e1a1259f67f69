package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Trait is one of the thirteen scored dimensions.
type Trait int

const (
	Openness Trait = iota
	Conscientiousness
	Extraversion
	Agreeableness
	Stability
	ResearchDrive
	SystemsDrive
	LaunchDrive
	BuildDrive
	Autonomy
	Mastery
	Power
	Affiliation

	traitCount
)

// Score bounds.
const (
	SeedScore = 5
	MinScore  = 1
	MaxScore  = 10
)

// traitKeys are the stable storage and wire names, in canonical order.
var traitKeys = [traitCount]string{
	"openness",
	"conscientiousness",
	"extraversion",
	"agreeableness",
	"stability",
	"factFinder",
	"followThru",
	"quickStart",
	"implementor",
	"autonomy",
	"mastery",
	"power",
	"affiliation",
}

// promptNames are the English names used in the narrative score block.
var promptNames = [traitCount]string{
	"Openness",
	"Conscientiousness",
	"Extraversion",
	"Agreeableness",
	"Stability",
	"ResearchDrive",
	"SystemsDrive",
	"LaunchDrive",
	"BuildDrive",
	"Autonomy",
	"Mastery",
	"Power",
	"Affiliation",
}

// String returns the stable key for t.
func (t Trait) String() string {
	if t < 0 || t >= traitCount {
		return "trait(" + strconv.Itoa(int(t)) + ")"
	}
	return traitKeys[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Trait) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trait) UnmarshalText(text []byte) error {
	parsed, ok := ParseTrait(string(text))
	if !ok {
		return fmt.Errorf("unknown trait %q", text)
	}
	*t = parsed
	return nil
}

// PromptName returns the English name used when describing scores to the
// narrative generator.
func (t Trait) PromptName() string {
	if t < 0 || t >= traitCount {
		return t.String()
	}
	return promptNames[t]
}

// Group returns the conceptual group t belongs to.
func (t Trait) Group() TraitGroup {
	switch {
	case t <= Stability:
		return Temperament
	case t <= BuildDrive:
		return ActionMode
	default:
		return CoreDriver
	}
}

// Traits returns all traits in canonical order.
func Traits() []Trait {
	out := make([]Trait, traitCount)
	for i := range out {
		out[i] = Trait(i)
	}
	return out
}

// ParseTrait resolves a stable key back to its Trait.
func ParseTrait(key string) (Trait, bool) {
	for i, k := range traitKeys {
		if k == key {
			return Trait(i), true
		}
	}
	return 0, false
}

// TraitGroup partitions the traits for display.
type TraitGroup int

const (
	Temperament TraitGroup = iota
	ActionMode
	CoreDriver
)

// TraitGroups returns the groups in display order.
func TraitGroups() []TraitGroup {
	return []TraitGroup{Temperament, ActionMode, CoreDriver}
}

// String returns the stable key for g.
func (g TraitGroup) String() string {
	switch g {
	case Temperament:
		return "temperament"
	case ActionMode:
		return "actionMode"
	case CoreDriver:
		return "coreDriver"
	default:
		return "group(" + strconv.Itoa(int(g)) + ")"
	}
}

// Traits returns the members of g in canonical order.
func (g TraitGroup) Traits() []Trait {
	var out []Trait
	for _, t := range Traits() {
		if t.Group() == g {
			out = append(out, t)
		}
	}
	return out
}

// TraitVector holds one score per trait, indexed by Trait.
type TraitVector [traitCount]int

// SeedVector returns the neutral starting vector.
func SeedVector() TraitVector {
	var v TraitVector
	for i := range v {
		v[i] = SeedScore
	}
	return v
}

// Get returns the score for t.
func (v TraitVector) Get(t Trait) int {
	return v[t]
}

// Map returns the scores keyed by stable trait key.
func (v TraitVector) Map() map[string]int {
	out := make(map[string]int, traitCount)
	for i, s := range v {
		out[traitKeys[i]] = s
	}
	return out
}

// MarshalJSON writes the vector as an object with keys in canonical order.
func (v TraitVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(traitKeys[i]))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(s))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by trait key. Every trait must be present.
func (v *TraitVector) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out TraitVector
	for i, k := range traitKeys {
		s, ok := m[k]
		if !ok {
			return fmt.Errorf("trait vector: missing %q", k)
		}
		out[i] = s
	}
	*v = out
	return nil
}
