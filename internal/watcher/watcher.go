// Package watcher monitors an answers file, re-scoring it on every change
// and emitting alerts when traits, stress patterns or progress move.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/answerfile"
	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/logging"
)

// State is the scored content of the answers file at one point in time.
type State struct {
	Timestamp time.Time
	Language  string
	Answered  int
	Result    assessment.AnalysisResult

	complete map[assessment.Phase]bool
}

// Alert represents a notable change detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Watcher re-analyzes an answers file when it changes on disk.
type Watcher struct {
	path          string
	debounce      time.Duration
	previous      *State
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	log           *zap.Logger

	// OnUpdate, when set, receives every successfully read state.
	OnUpdate func(*State)
}

// New creates a Watcher for the answers file at path. Writes closer together
// than debounce are handled as one change.
func New(path string, debounce time.Duration, alertFn func(Alert), log *zap.Logger) *Watcher {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Watcher{
		path:          filepath.Clean(path),
		debounce:      debounce,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		log:           logging.OrNop(log),
	}
}

// Run reads the file once, then watches its directory until ctx is
// cancelled. The directory is watched instead of the file so editors that
// save by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial
	if w.OnUpdate != nil {
		w.OnUpdate(initial)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.log.Debug("watching", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	tick := w.debounce / 5
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.log.Debug("file event", zap.Stringer("op", event.Op))
			pending = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", zap.Error(err))

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			for _, a := range w.Check() {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check reads the file again, compares against the previous state and
// returns any alerts. Identical alerts are suppressed until the underlying
// data changes. A failed read keeps the previous state.
func (w *Watcher) Check() []Alert {
	curr, err := w.Snapshot()
	if err != nil {
		raw := []Alert{{
			Level:   "warning",
			Title:   "Answers file unreadable",
			Message: err.Error(),
			Time:    time.Now(),
		}}
		return w.dedup(raw)
	}
	if w.OnUpdate != nil {
		w.OnUpdate(curr)
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	w.previous = curr
	return w.dedup(raw)
}

func (w *Watcher) dedup(raw []Alert) []Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot reads and scores the answers file.
func (w *Watcher) Snapshot() (*State, error) {
	f, err := answerfile.Read(w.path)
	if err != nil {
		return nil, err
	}
	answers, err := f.AnswerSet()
	if err != nil {
		return nil, err
	}
	return newState(f.Language, answers, time.Now()), nil
}

func newState(lang string, answers *assessment.Answers, at time.Time) *State {
	catalog := assessment.StructureCatalog()
	complete := make(map[assessment.Phase]bool)
	for _, p := range assessment.Phases() {
		done := true
		for _, q := range catalog.ByPhase(p) {
			if _, ok := answers.Get(q.ID); !ok {
				done = false
				break
			}
		}
		complete[p] = done
	}
	return &State{
		Timestamp: at,
		Language:  lang,
		Answered:  answers.Len(),
		Result:    assessment.Analyze(answers),
		complete:  complete,
	}
}
