package assessment

import "fmt"

// Descriptor is a display key for a contrast or environment label. Locale
// bundles translate it.
type Descriptor string

const (
	DescImpulsive    Descriptor = "impulsive"
	DescMethodical   Descriptor = "methodical"
	DescParalysis    Descriptor = "paralysis"
	DescGambler      Descriptor = "gambler"
	DescCalcRisk     Descriptor = "calcRisk"
	DescSteadyOpt    Descriptor = "steadyOpt"
	DescRiskAverse   Descriptor = "riskAverse"
	DescThrillSeek   Descriptor = "thrillSeek"
	DescDiplomatic   Descriptor = "diplomatic"
	DescHarmonious   Descriptor = "harmonious"
	DescAvoider      Descriptor = "avoider"
	DescAggressive   Descriptor = "aggressive"
	DescExperimental Descriptor = "experimental"
	DescStudious     Descriptor = "studious"
	DescTheoretical  Descriptor = "theoretical"
	DescTrialByFire  Descriptor = "trialByFire"

	DescHighAutonomy        Descriptor = "highAutonomy"
	DescStructured          Descriptor = "structured"
	DescMicromanaged        Descriptor = "micromanaged"
	DescUnstructured        Descriptor = "unstructured"
	DescFastMoving          Descriptor = "fastMoving"
	DescMethodicalOrg       Descriptor = "methodicalOrg"
	DescSlowMoving          Descriptor = "slowMoving"
	DescMoveFast            Descriptor = "moveFast"
	DescCollaborative       Descriptor = "collaborative"
	DescDeepWork            Descriptor = "deepWork"
	DescIsolated            Descriptor = "isolated"
	DescConstantMeetings    Descriptor = "constantMeetings"
	DescLearningFocused     Descriptor = "learningFocused"
	DescExecutionFocused    Descriptor = "executionFocused"
	DescStagnant            Descriptor = "stagnant"
	DescConstantReinvention Descriptor = "constantReinvention"
)

// Descriptors returns every descriptor in display-table order.
func Descriptors() []Descriptor {
	return []Descriptor{
		DescImpulsive, DescMethodical, DescParalysis, DescGambler,
		DescCalcRisk, DescSteadyOpt, DescRiskAverse, DescThrillSeek,
		DescDiplomatic, DescHarmonious, DescAvoider, DescAggressive,
		DescExperimental, DescStudious, DescTheoretical, DescTrialByFire,
		DescHighAutonomy, DescStructured, DescMicromanaged, DescUnstructured,
		DescFastMoving, DescMethodicalOrg, DescSlowMoving, DescMoveFast,
		DescCollaborative, DescDeepWork, DescIsolated, DescConstantMeetings,
		DescLearningFocused, DescExecutionFocused, DescStagnant, DescConstantReinvention,
	}
}

// ContrastDimension names a row of the contextual contrast table.
type ContrastDimension int

const (
	DecisionSpeed ContrastDimension = iota
	RiskProfile
	ConflictStyle
	LearningMode
)

// ContrastDimensions returns the contrast rows in order.
func ContrastDimensions() []ContrastDimension {
	return []ContrastDimension{DecisionSpeed, RiskProfile, ConflictStyle, LearningMode}
}

func (d ContrastDimension) String() string {
	switch d {
	case DecisionSpeed:
		return "decisionSpeed"
	case RiskProfile:
		return "riskProfile"
	case ConflictStyle:
		return "conflictStyle"
	case LearningMode:
		return "learningMode"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d ContrastDimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *ContrastDimension) UnmarshalText(text []byte) error {
	for _, c := range ContrastDimensions() {
		if c.String() == string(text) {
			*d = c
			return nil
		}
	}
	return fmt.Errorf("unknown contrast dimension %q", text)
}

// Contrast describes two near-miss self-images for one dimension: one that
// is close but not the respondent, one that is clearly not them.
type Contrast struct {
	Dimension   ContrastDimension `json:"dimension"`
	CloseButNot Descriptor        `json:"close_but_not"`
	ClearlyNot  Descriptor        `json:"clearly_not"`
}

type contrastRule struct {
	dim        ContrastDimension
	questionID int
	ifA        [2]Descriptor
	otherwise  [2]Descriptor
}

// An unanswered question takes the otherwise branch.
var contrastRules = []contrastRule{
	{DecisionSpeed, 14, [2]Descriptor{DescImpulsive, DescParalysis}, [2]Descriptor{DescMethodical, DescGambler}},
	{RiskProfile, 15, [2]Descriptor{DescCalcRisk, DescRiskAverse}, [2]Descriptor{DescSteadyOpt, DescThrillSeek}},
	{ConflictStyle, 16, [2]Descriptor{DescDiplomatic, DescAvoider}, [2]Descriptor{DescHarmonious, DescAggressive}},
	{LearningMode, 18, [2]Descriptor{DescExperimental, DescTheoretical}, [2]Descriptor{DescStudious, DescTrialByFire}},
}

// Contrasts derives the contextual contrast table from answers.
func Contrasts(answers *Answers) []Contrast {
	out := make([]Contrast, 0, len(contrastRules))
	for _, r := range contrastRules {
		pair := r.otherwise
		if c, ok := answers.Choice(r.questionID); ok && c == ChoiceA {
			pair = r.ifA
		}
		out = append(out, Contrast{Dimension: r.dim, CloseButNot: pair[0], ClearlyNot: pair[1]})
	}
	return out
}

// EnvironmentThreshold is the score at which a trait counts as high.
const EnvironmentThreshold = 6

// EnvironmentFit is one row of the environment table.
type EnvironmentFit struct {
	Trait   Trait      `json:"trait"`
	High    bool       `json:"high"`
	Thrives Descriptor `json:"thrives_in"`
	Fails   Descriptor `json:"fails_in"`
}

type environmentRule struct {
	trait                 Trait
	thriveHigh, thriveLow Descriptor
	failsHigh, failsLow   Descriptor
}

var environmentRules = []environmentRule{
	{Autonomy, DescHighAutonomy, DescStructured, DescMicromanaged, DescUnstructured},
	{LaunchDrive, DescFastMoving, DescMethodicalOrg, DescSlowMoving, DescMoveFast},
	{Extraversion, DescCollaborative, DescDeepWork, DescIsolated, DescConstantMeetings},
	{Mastery, DescLearningFocused, DescExecutionFocused, DescStagnant, DescConstantReinvention},
}

// Environment derives the thrives-in / fails-in table from trait scores.
func Environment(traits TraitVector) []EnvironmentFit {
	out := make([]EnvironmentFit, 0, len(environmentRules))
	for _, r := range environmentRules {
		high := traits.Get(r.trait) >= EnvironmentThreshold
		row := EnvironmentFit{Trait: r.trait, High: high, Thrives: r.thriveLow, Fails: r.failsLow}
		if high {
			row.Thrives, row.Fails = r.thriveHigh, r.failsHigh
		}
		out = append(out, row)
	}
	return out
}
