package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

const sessionColumns = `s.id, s.language, s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM answers a WHERE a.session_id = s.id)`

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// CreateSession inserts a new session with a random id.
func (db *DB) CreateSession(ctx context.Context, language string) (*Session, error) {
	ts := now()
	id := uuid.NewString()
	if _, err := db.conn.ExecContext(ctx,
		"INSERT INTO sessions (id, language, created_at, updated_at) VALUES (?, ?, ?, ?)",
		id, language, ts, ts,
	); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	db.log.Debug("session created", zap.String("session", id), zap.String("language", language))
	return db.GetSession(ctx, id)
}

// GetSession returns a session by id, or ErrNotFound.
func (db *DB) GetSession(ctx context.Context, id string) (*Session, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions s WHERE s.id = ?", id)
	s, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, nil
}

// ListSessions returns all sessions, most recently updated first.
func (db *DB) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT "+sessionColumns+" FROM sessions s ORDER BY s.updated_at DESC, s.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and, by cascade, its answers, snapshots
// and narrative.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.Language, &createdAt, &updatedAt, &s.AnswerCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &s, nil
}

// PutAnswer records or overwrites the answer to one question.
func (db *DB) PutAnswer(ctx context.Context, sessionID string, questionID int, a assessment.Answer) error {
	return db.withSession(ctx, sessionID, func(tx *sql.Tx, ts string) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO answers (session_id, question_id, choice, intensity, answered_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (session_id, question_id)
			DO UPDATE SET choice = excluded.choice, intensity = excluded.intensity, answered_at = excluded.answered_at`,
			sessionID, questionID, a.Choice.String(), int(a.Intensity), ts,
		)
		return err
	})
}

// DeleteAnswer removes the answer to one question. Removing an answer that
// does not exist is not an error.
func (db *DB) DeleteAnswer(ctx context.Context, sessionID string, questionID int) error {
	return db.withSession(ctx, sessionID, func(tx *sql.Tx, _ string) error {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM answers WHERE session_id = ? AND question_id = ?", sessionID, questionID)
		return err
	})
}

// ReplaceAnswers swaps the whole answer set of a session.
func (db *DB) ReplaceAnswers(ctx context.Context, sessionID string, answers *assessment.Answers) error {
	return db.withSession(ctx, sessionID, func(tx *sql.Tx, ts string) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM answers WHERE session_id = ?", sessionID); err != nil {
			return err
		}
		for _, id := range answers.IDs() {
			a, _ := answers.Get(id)
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO answers (session_id, question_id, choice, intensity, answered_at) VALUES (?, ?, ?, ?, ?)",
				sessionID, id, a.Choice.String(), int(a.Intensity), ts,
			); err != nil {
				return fmt.Errorf("question %d: %w", id, err)
			}
		}
		return nil
	})
}

// LoadAnswers returns the answers recorded for a session.
func (db *DB) LoadAnswers(ctx context.Context, sessionID string) (*assessment.Answers, error) {
	if _, err := db.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx,
		"SELECT question_id, choice, intensity FROM answers WHERE session_id = ? ORDER BY question_id", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := assessment.NewAnswers()
	for rows.Next() {
		var id, intensity int
		var choice string
		if err := rows.Scan(&id, &choice, &intensity); err != nil {
			return nil, err
		}
		c, err := assessment.ParseChoice(choice)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", id, err)
		}
		if err := answers.Set(id, c, intensity); err != nil {
			return nil, err
		}
	}
	return answers, rows.Err()
}

// withSession runs fn in a transaction after checking the session exists,
// then bumps the session's updated_at.
func (db *DB) withSession(ctx context.Context, sessionID string, fn func(tx *sql.Tx, ts string) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	ts := now()
	if err := fn(tx, ts); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE sessions SET updated_at = ? WHERE id = ?", ts, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}
