package assessment

// LabelRule emits Label when the answer to QuestionID is Choice.
type LabelRule[L any] struct {
	QuestionID int
	Choice     Choice
	Label      L
}

// matchLabels returns the labels of every matching rule in table order.
// Intensity is ignored. The result is never nil.
func matchLabels[L any](answers *Answers, rules []LabelRule[L]) []L {
	out := make([]L, 0)
	for _, r := range rules {
		c, ok := answers.Choice(r.QuestionID)
		if ok && c == r.Choice {
			out = append(out, r.Label)
		}
	}
	return out
}

// Not every question has a label for both letters.
var stressPatternRules = []LabelRule[StressPattern]{
	{QuestionID: 21, Choice: ChoiceA, Label: Confrontational},
	{QuestionID: 21, Choice: ChoiceB, Label: Withdrawing},
	{QuestionID: 24, Choice: ChoiceA, Label: TaskFocused},
	{QuestionID: 27, Choice: ChoiceA, Label: RuleBending},
	{QuestionID: 30, Choice: ChoiceA, Label: Perfectionism},
	{QuestionID: 32, Choice: ChoiceA, Label: SelfSacrifice},
	{QuestionID: 35, Choice: ChoiceB, Label: SpreadingThin},
}

var operationalRuleRules = []LabelRule[OperationalRule]{
	{QuestionID: 36, Choice: ChoiceA, Label: CalendarBlocks},
	{QuestionID: 36, Choice: ChoiceB, Label: TrustedAdvisorVeto},
	{QuestionID: 37, Choice: ChoiceA, Label: DecisionDeadlines},
	{QuestionID: 37, Choice: ChoiceB, Label: CoolingOff},
	{QuestionID: 38, Choice: ChoiceA, Label: StructuredFeedback},
	{QuestionID: 41, Choice: ChoiceA, Label: EstimateMultiplier},
	{QuestionID: 41, Choice: ChoiceB, Label: ActBeforeReady},
}

// StressPatternRules returns a copy of the stress-pattern table.
func StressPatternRules() []LabelRule[StressPattern] {
	return append([]LabelRule[StressPattern](nil), stressPatternRules...)
}

// OperationalRuleRules returns a copy of the operational-rule table.
func OperationalRuleRules() []LabelRule[OperationalRule] {
	return append([]LabelRule[OperationalRule](nil), operationalRuleRules...)
}

// ClassifyStressPatterns returns the stress patterns the answers trigger, in
// table order.
func ClassifyStressPatterns(answers *Answers) []StressPattern {
	return matchLabels(answers, stressPatternRules)
}

// SelectOperationalRules returns the operational rules the answers select, in
// table order.
func SelectOperationalRules(answers *Answers) []OperationalRule {
	return matchLabels(answers, operationalRuleRules)
}
