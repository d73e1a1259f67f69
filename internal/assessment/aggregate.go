package assessment

// Weight selects how an answer's intensity is scaled by a rule.
type Weight uint8

const (
	// Primary rules add the full intensity.
	Primary Weight = iota + 1
	// Secondary rules add ceil(intensity/2): 1, 1, 2.
	Secondary
)

func (w Weight) String() string {
	switch w {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// magnitude returns the amount a rule of weight w adds per unit direction.
func (w Weight) magnitude(i Intensity) int {
	if w == Secondary {
		return (int(i) + 1) / 2
	}
	return int(i)
}

// WeightRule moves one trait according to the answer to one question.
// IfA and IfB are the directions (+1, -1 or 0) applied for each choice.
type WeightRule struct {
	QuestionID int
	Trait      Trait
	Weight     Weight
	IfA        int
	IfB        int
}

func (r WeightRule) direction(c Choice) int {
	if c == ChoiceA {
		return r.IfA
	}
	return r.IfB
}

var primaryRules = []WeightRule{
	{QuestionID: 1, Trait: Openness, Weight: Primary, IfA: -1, IfB: +1},
	{QuestionID: 2, Trait: Conscientiousness, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 3, Trait: Extraversion, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 4, Trait: Agreeableness, Weight: Primary, IfA: -1, IfB: +1},
	{QuestionID: 5, Trait: Stability, Weight: Primary, IfA: -1, IfB: +1},
	{QuestionID: 6, Trait: ResearchDrive, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 7, Trait: SystemsDrive, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 8, Trait: LaunchDrive, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 9, Trait: BuildDrive, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 10, Trait: Autonomy, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 11, Trait: Mastery, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 12, Trait: Power, Weight: Primary, IfA: +1, IfB: -1},
	{QuestionID: 13, Trait: Affiliation, Weight: Primary, IfA: +1, IfB: -1},
}

// Entries with IfB 0 only register the A side.
var secondaryRules = []WeightRule{
	{QuestionID: 14, Trait: LaunchDrive, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 15, Trait: LaunchDrive, Weight: Secondary, IfA: +1, IfB: 0},
	{QuestionID: 15, Trait: Stability, Weight: Secondary, IfA: -1, IfB: +1},
	{QuestionID: 16, Trait: Extraversion, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 16, Trait: Agreeableness, Weight: Secondary, IfA: -1, IfB: +1},
	{QuestionID: 17, Trait: Openness, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 18, Trait: LaunchDrive, Weight: Secondary, IfA: +1, IfB: 0},
	{QuestionID: 18, Trait: BuildDrive, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 19, Trait: Power, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 19, Trait: Mastery, Weight: Secondary, IfA: +1, IfB: 0},
	{QuestionID: 20, Trait: Stability, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 20, Trait: Conscientiousness, Weight: Secondary, IfA: +1, IfB: 0},
	{QuestionID: 21, Trait: Extraversion, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 22, Trait: Agreeableness, Weight: Secondary, IfA: -1, IfB: 0},
	{QuestionID: 23, Trait: LaunchDrive, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 24, Trait: Agreeableness, Weight: Secondary, IfA: -1, IfB: +1},
	{QuestionID: 26, Trait: Extraversion, Weight: Secondary, IfA: +1, IfB: 0},
	{QuestionID: 29, Trait: Openness, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 30, Trait: Conscientiousness, Weight: Secondary, IfA: +1, IfB: -1},
	{QuestionID: 30, Trait: SystemsDrive, Weight: Secondary, IfA: +1, IfB: 0},
	{QuestionID: 31, Trait: Autonomy, Weight: Secondary, IfA: -1, IfB: +1},
	{QuestionID: 31, Trait: Affiliation, Weight: Secondary, IfA: +1, IfB: 0},
}

// PrimaryRules returns a copy of the full-weight table in canonical order.
func PrimaryRules() []WeightRule {
	return append([]WeightRule(nil), primaryRules...)
}

// SecondaryRules returns a copy of the half-weight table in canonical order.
func SecondaryRules() []WeightRule {
	return append([]WeightRule(nil), secondaryRules...)
}

// foldWeights applies every rule whose question is answered to v.
func foldWeights(v *TraitVector, rules []WeightRule, answers *Answers) {
	for _, r := range rules {
		ans, ok := answers.Get(r.QuestionID)
		if !ok {
			continue
		}
		v[r.Trait] += r.direction(ans.Choice) * r.Weight.magnitude(ans.Intensity)
	}
}

// RawScores returns the seeded, accumulated trait values before clamping.
func RawScores(answers *Answers) TraitVector {
	v := SeedVector()
	foldWeights(&v, primaryRules, answers)
	foldWeights(&v, secondaryRules, answers)
	return v
}

// Aggregate computes the clamped trait vector for answers. Every weight and
// the seed are integers, so no rounding is needed before clamping.
func Aggregate(answers *Answers) TraitVector {
	v := RawScores(answers)
	for i := range v {
		v[i] = clamp(v[i], MinScore, MaxScore)
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
