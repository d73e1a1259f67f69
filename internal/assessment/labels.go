package assessment

import (
	"fmt"
	"strconv"
)

// StressPattern is a behavioral tendency under pressure.
type StressPattern int

const (
	Confrontational StressPattern = iota
	Withdrawing
	TaskFocused
	RuleBending
	Perfectionism
	SelfSacrifice
	SpreadingThin

	stressPatternCount
)

var stressPatternKeys = [stressPatternCount]string{
	"confrontational",
	"withdrawing",
	"taskFocused",
	"ruleBending",
	"perfectionism",
	"selfSacrifice",
	"spreadingThin",
}

// StressPatterns returns every pattern in declaration order.
func StressPatterns() []StressPattern {
	out := make([]StressPattern, stressPatternCount)
	for i := range out {
		out[i] = StressPattern(i)
	}
	return out
}

func (p StressPattern) String() string {
	if p < 0 || p >= stressPatternCount {
		return "pattern(" + strconv.Itoa(int(p)) + ")"
	}
	return stressPatternKeys[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p StressPattern) MarshalText() ([]byte, error) {
	if p < 0 || p >= stressPatternCount {
		return nil, fmt.Errorf("invalid stress pattern %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *StressPattern) UnmarshalText(text []byte) error {
	for i, k := range stressPatternKeys {
		if k == string(text) {
			*p = StressPattern(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stress pattern %q", text)
}

// OperationalRule is a self-management tactic recommended from the
// solution-design answers.
type OperationalRule int

const (
	CalendarBlocks OperationalRule = iota
	TrustedAdvisorVeto
	DecisionDeadlines
	CoolingOff
	StructuredFeedback
	EstimateMultiplier
	ActBeforeReady

	operationalRuleCount
)

// Keys match the locale table entries (rule1a, rule1b, ...).
var operationalRuleKeys = [operationalRuleCount]string{
	"rule1a",
	"rule1b",
	"rule2a",
	"rule2b",
	"rule3a",
	"rule4a",
	"rule4b",
}

// OperationalRules returns every rule in declaration order.
func OperationalRules() []OperationalRule {
	out := make([]OperationalRule, operationalRuleCount)
	for i := range out {
		out[i] = OperationalRule(i)
	}
	return out
}

func (r OperationalRule) String() string {
	if r < 0 || r >= operationalRuleCount {
		return "rule(" + strconv.Itoa(int(r)) + ")"
	}
	return operationalRuleKeys[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r OperationalRule) MarshalText() ([]byte, error) {
	if r < 0 || r >= operationalRuleCount {
		return nil, fmt.Errorf("invalid operational rule %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *OperationalRule) UnmarshalText(text []byte) error {
	for i, k := range operationalRuleKeys {
		if k == string(text) {
			*r = OperationalRule(i)
			return nil
		}
	}
	return fmt.Errorf("unknown operational rule %q", text)
}
