// Package store persists assessment sessions, their answers, analysis
// snapshots and generated narratives. SQLite is the default backend; a
// MongoDB backend is available for shared server deployments.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

// ErrNotFound is returned when a session or narrative does not exist.
var ErrNotFound = errors.New("not found")

// Session is one respondent's pass through the questionnaire.
type Session struct {
	ID          string    `json:"id" bson:"_id"`
	Language    string    `json:"language" bson:"language"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
	AnswerCount int       `json:"answer_count" bson:"-"`
}

// Snapshot is an analysis result recorded at a point in time.
type Snapshot struct {
	ID        int64                     `json:"id"`
	SessionID string                    `json:"session_id"`
	TakenAt   time.Time                 `json:"taken_at"`
	Result    assessment.AnalysisResult `json:"result"`
}

// Narrative is a generated long-form report for a session.
type Narrative struct {
	SessionID string    `json:"session_id" bson:"_id"`
	Language  string    `json:"language" bson:"language"`
	Model     string    `json:"model" bson:"model"`
	Markdown  string    `json:"markdown" bson:"markdown"`
	Failed    int       `json:"failed_chapters" bson:"failed_chapters"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is implemented by the SQLite and MongoDB backends.
type Store interface {
	CreateSession(ctx context.Context, language string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error

	PutAnswer(ctx context.Context, sessionID string, questionID int, a assessment.Answer) error
	DeleteAnswer(ctx context.Context, sessionID string, questionID int) error
	LoadAnswers(ctx context.Context, sessionID string) (*assessment.Answers, error)
	ReplaceAnswers(ctx context.Context, sessionID string, answers *assessment.Answers) error

	SaveSnapshot(ctx context.Context, sessionID string, result assessment.AnalysisResult) (*Snapshot, error)
	// RecentSnapshots returns up to n snapshots, newest first.
	RecentSnapshots(ctx context.Context, sessionID string, n int) ([]Snapshot, error)

	SaveNarrative(ctx context.Context, n *Narrative) error
	GetNarrative(ctx context.Context, sessionID string) (*Narrative, error)

	Close() error
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot    `json:"previous"`
	Current  *Snapshot    `json:"current"`
	Deltas   []TraitDelta `json:"deltas"`
}

// TraitDelta represents the change in a single trait score between snapshots.
type TraitDelta struct {
	Trait     assessment.Trait `json:"trait"`
	Previous  int              `json:"previous"`
	Current   int              `json:"current"`
	Delta     int              `json:"delta"`
	Direction string           `json:"direction"` // "up", "down", "unchanged"
}

// DiffSnapshots compares every trait of two snapshots.
func DiffSnapshots(prev, curr *Snapshot) SnapshotDiff {
	diff := SnapshotDiff{Previous: prev, Current: curr}
	if prev == nil || curr == nil {
		return diff
	}
	for _, t := range assessment.Traits() {
		p, c := prev.Result.Traits.Get(t), curr.Result.Traits.Get(t)
		d := TraitDelta{Trait: t, Previous: p, Current: c, Delta: c - p, Direction: "unchanged"}
		switch {
		case c > p:
			d.Direction = "up"
		case c < p:
			d.Direction = "down"
		}
		diff.Deltas = append(diff.Deltas, d)
	}
	return diff
}
