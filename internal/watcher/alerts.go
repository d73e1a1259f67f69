package watcher

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/store"
)

// shiftThreshold is the trait movement that raises a warning instead of
// an info alert.
const shiftThreshold = 3

// Compare detects notable changes between two states and returns alerts,
// critical first.
func Compare(prev, curr *State) []Alert {
	b, err := locale.Get(curr.Language)
	if err != nil {
		b = locale.MustGet(locale.DefaultLanguage)
	}

	var alerts []Alert
	alerts = append(alerts, compareCritical(prev, curr, b)...)
	alerts = append(alerts, compareWarning(prev, curr, b)...)
	alerts = append(alerts, compareInfo(prev, curr, b)...)
	return alerts
}

// compareCritical reports stress patterns that newly apply.
func compareCritical(prev, curr *State, b *locale.Bundle) []Alert {
	var alerts []Alert
	now := time.Now()

	had := make(map[assessment.StressPattern]bool, len(prev.Result.StressPatterns))
	for _, p := range prev.Result.StressPatterns {
		had[p] = true
	}
	for _, p := range curr.Result.StressPatterns {
		if !had[p] {
			alerts = append(alerts, Alert{
				Level:   "critical",
				Title:   fmt.Sprintf("Stress pattern: %s", b.Pattern(p)),
				Message: "Now identified from your stress-testing answers",
				Time:    now,
			})
		}
	}
	return alerts
}

// compareWarning reports large trait shifts and environment fit flips.
func compareWarning(prev, curr *State, b *locale.Bundle) []Alert {
	var alerts []Alert
	now := time.Now()

	for _, d := range traitDeltas(prev, curr) {
		if abs(d.Delta) < shiftThreshold {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   fmt.Sprintf("Trait shift: %s", b.Trait(d.Trait)),
			Message: fmt.Sprintf("%d → %d (%+d)", d.Previous, d.Current, d.Delta),
			Time:    now,
		})
	}

	for i, fit := range curr.Result.Environment {
		if i >= len(prev.Result.Environment) || prev.Result.Environment[i].High == fit.High {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   fmt.Sprintf("Environment fit changed: %s", b.Trait(fit.Trait)),
			Message: fmt.Sprintf("%s: %s / %s: %s", b.Text("thrivesIn"), b.Descriptor(fit.Thrives), b.Text("failsIn"), b.Descriptor(fit.Fails)),
			Time:    now,
		})
	}
	return alerts
}

// compareInfo reports small trait moves, resolved patterns, rule changes
// and progress.
func compareInfo(prev, curr *State, b *locale.Bundle) []Alert {
	var alerts []Alert
	now := time.Now()

	for _, d := range traitDeltas(prev, curr) {
		if d.Delta == 0 || abs(d.Delta) >= shiftThreshold {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   fmt.Sprintf("Trait moved: %s", b.Trait(d.Trait)),
			Message: fmt.Sprintf("%d → %d (%+d)", d.Previous, d.Current, d.Delta),
			Time:    now,
		})
	}

	still := make(map[assessment.StressPattern]bool, len(curr.Result.StressPatterns))
	for _, p := range curr.Result.StressPatterns {
		still[p] = true
	}
	for _, p := range prev.Result.StressPatterns {
		if !still[p] {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   fmt.Sprintf("Stress pattern resolved: %s", b.Pattern(p)),
				Message: "No longer identified from your answers",
				Time:    now,
			})
		}
	}

	hadRule := make(map[assessment.OperationalRule]bool, len(prev.Result.OperationalRules))
	for _, r := range prev.Result.OperationalRules {
		hadRule[r] = true
	}
	for _, r := range curr.Result.OperationalRules {
		if !hadRule[r] {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   "Operational rule added",
				Message: b.Rule(r),
				Time:    now,
			})
		}
	}

	total := assessment.StructureCatalog().Len()
	if curr.Answered != prev.Answered {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Progress",
			Message: fmt.Sprintf("%d → %d of %d answered", prev.Answered, curr.Answered, total),
			Time:    now,
		})
	}
	for _, p := range assessment.Phases() {
		if curr.complete[p] && !prev.complete[p] {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   "Phase complete",
				Message: b.PhaseTitle(p),
				Time:    now,
			})
		}
	}
	return alerts
}

func traitDeltas(prev, curr *State) []store.TraitDelta {
	diff := store.DiffSnapshots(
		&store.Snapshot{TakenAt: prev.Timestamp, Result: prev.Result},
		&store.Snapshot{TakenAt: curr.Timestamp, Result: curr.Result},
	)
	return diff.Deltas
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
