package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

// SaveSnapshot records an analysis result for a session.
func (db *DB) SaveSnapshot(ctx context.Context, sessionID string, result assessment.AnalysisResult) (*Snapshot, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	if _, err := db.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	taken := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx,
		"INSERT INTO snapshots (session_id, taken_at, result) VALUES (?, ?, ?)",
		sessionID, taken.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Snapshot{ID: id, SessionID: sessionID, TakenAt: taken, Result: result}, nil
}

// RecentSnapshots returns up to n snapshots for a session, newest first.
func (db *DB) RecentSnapshots(ctx context.Context, sessionID string, n int) ([]Snapshot, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, session_id, taken_at, result FROM snapshots WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var takenAt, result string
		if err := rows.Scan(&s.ID, &s.SessionID, &takenAt, &result); err != nil {
			return nil, err
		}
		s.TakenAt, _ = time.Parse(time.RFC3339Nano, takenAt)
		if err := json.Unmarshal([]byte(result), &s.Result); err != nil {
			return nil, fmt.Errorf("decoding snapshot %d: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveNarrative stores the narrative for a session, replacing any earlier one.
func (db *DB) SaveNarrative(ctx context.Context, n *Narrative) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := db.GetSession(ctx, n.SessionID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO narratives (session_id, language, model, markdown, failed_chapters, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			language = excluded.language, model = excluded.model, markdown = excluded.markdown,
			failed_chapters = excluded.failed_chapters, created_at = excluded.created_at`,
		n.SessionID, n.Language, n.Model, n.Markdown, n.Failed, n.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetNarrative returns the stored narrative for a session, or ErrNotFound.
func (db *DB) GetNarrative(ctx context.Context, sessionID string) (*Narrative, error) {
	var n Narrative
	var createdAt string
	err := db.conn.QueryRowContext(ctx,
		"SELECT session_id, language, model, markdown, failed_chapters, created_at FROM narratives WHERE session_id = ?",
		sessionID,
	).Scan(&n.SessionID, &n.Language, &n.Model, &n.Markdown, &n.Failed, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("narrative for %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	n.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &n, nil
}
