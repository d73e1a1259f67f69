package assessment

import (
	"errors"
	"fmt"
)

// AnalysisResult is the complete scoring output for one answer snapshot.
type AnalysisResult struct {
	Traits           TraitVector       `json:"traits"`
	StressPatterns   []StressPattern   `json:"stress_patterns"`
	OperationalRules []OperationalRule `json:"operational_rules"`
	Contrasts        []Contrast        `json:"contrasts"`
	Environment      []EnvironmentFit  `json:"environment"`
}

// Analyze scores answers from scratch. It only reads answers; callers must
// not mutate the store while the call runs.
func Analyze(answers *Answers) AnalysisResult {
	traits := Aggregate(answers)
	return AnalysisResult{
		Traits:           traits,
		StressPatterns:   ClassifyStressPatterns(answers),
		OperationalRules: SelectOperationalRules(answers),
		Contrasts:        Contrasts(answers),
		Environment:      Environment(traits),
	}
}

// ValidateRules checks every rule table against c: referenced questions must
// exist, directions must be -1, 0 or +1, primary rules must move the trait
// for both letters, and label rules must name a valid letter.
func ValidateRules(c *Catalog) error {
	var errs []error

	check := func(kind string, qid int) {
		if !c.Contains(qid) {
			errs = append(errs, fmt.Errorf("%s rule: %w %d", kind, ErrUnknownQuestion, qid))
		}
	}
	unit := func(d int) bool { return d >= -1 && d <= 1 }

	for _, r := range primaryRules {
		check("primary", r.QuestionID)
		if r.IfA == 0 || r.IfB == 0 || !unit(r.IfA) || !unit(r.IfB) {
			errs = append(errs, fmt.Errorf("primary rule q%d/%s: directions must be ±1", r.QuestionID, r.Trait))
		}
	}
	for _, r := range secondaryRules {
		check("secondary", r.QuestionID)
		if !unit(r.IfA) || !unit(r.IfB) || (r.IfA == 0 && r.IfB == 0) {
			errs = append(errs, fmt.Errorf("secondary rule q%d/%s: invalid directions %d/%d", r.QuestionID, r.Trait, r.IfA, r.IfB))
		}
	}
	for _, r := range stressPatternRules {
		check("stress pattern", r.QuestionID)
		if !r.Choice.Valid() {
			errs = append(errs, fmt.Errorf("stress pattern rule q%d: %w", r.QuestionID, ErrInvalidChoice))
		}
	}
	for _, r := range operationalRuleRules {
		check("operational", r.QuestionID)
		if !r.Choice.Valid() {
			errs = append(errs, fmt.Errorf("operational rule q%d: %w", r.QuestionID, ErrInvalidChoice))
		}
	}
	for _, r := range contrastRules {
		check("contrast", r.questionID)
	}

	return errors.Join(errs...)
}
