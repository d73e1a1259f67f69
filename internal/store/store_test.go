package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

func mustAnswer(t *testing.T, c assessment.Choice, intensity int) assessment.Answer {
	t.Helper()
	a, err := assessment.NewAnswer(c, intensity)
	require.NoError(t, err)
	return a
}

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("session lifecycle", func(t *testing.T) {
		sess, err := s.CreateSession(ctx, "de")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, "de", sess.Language)
		assert.Zero(t, sess.AnswerCount)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)

		list, err := s.ListSessions(ctx)
		require.NoError(t, err)
		var ids []string
		for _, l := range list {
			ids = append(ids, l.ID)
		}
		assert.Contains(t, ids, sess.ID)

		require.NoError(t, s.DeleteSession(ctx, sess.ID))
		_, err = s.GetSession(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, sess.ID), ErrNotFound)
	})

	t.Run("answers", func(t *testing.T) {
		sess, err := s.CreateSession(ctx, "en")
		require.NoError(t, err)

		require.NoError(t, s.PutAnswer(ctx, sess.ID, 1, mustAnswer(t, assessment.ChoiceB, 3)))
		require.NoError(t, s.PutAnswer(ctx, sess.ID, 21, mustAnswer(t, assessment.ChoiceA, 1)))
		// Overwrite keeps a single answer per question.
		require.NoError(t, s.PutAnswer(ctx, sess.ID, 1, mustAnswer(t, assessment.ChoiceA, 2)))

		answers, err := s.LoadAnswers(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 21}, answers.IDs())
		a, _ := answers.Get(1)
		assert.Equal(t, mustAnswer(t, assessment.ChoiceA, 2), a)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.AnswerCount)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

		require.NoError(t, s.DeleteAnswer(ctx, sess.ID, 21))
		require.NoError(t, s.DeleteAnswer(ctx, sess.ID, 21))
		answers, err = s.LoadAnswers(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, answers.IDs())

		repl := assessment.NewAnswers()
		require.NoError(t, repl.Set(5, assessment.ChoiceB, 1))
		require.NoError(t, repl.Set(43, assessment.ChoiceA, 3))
		require.NoError(t, s.ReplaceAnswers(ctx, sess.ID, repl))
		answers, err = s.LoadAnswers(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, []int{5, 43}, answers.IDs())
	})

	t.Run("missing session", func(t *testing.T) {
		const id = "00000000-0000-0000-0000-000000000000"
		assert.ErrorIs(t, s.PutAnswer(ctx, id, 1, mustAnswer(t, assessment.ChoiceA, 1)), ErrNotFound)
		assert.ErrorIs(t, s.DeleteAnswer(ctx, id, 1), ErrNotFound)
		assert.ErrorIs(t, s.ReplaceAnswers(ctx, id, assessment.NewAnswers()), ErrNotFound)
		_, err := s.LoadAnswers(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.SaveSnapshot(ctx, id, assessment.Analyze(nil))
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetNarrative(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("snapshots", func(t *testing.T) {
		sess, err := s.CreateSession(ctx, "en")
		require.NoError(t, err)

		first := assessment.Analyze(nil)
		ans := assessment.NewAnswers()
		require.NoError(t, ans.Set(1, assessment.ChoiceB, 3))
		require.NoError(t, ans.Set(21, assessment.ChoiceA, 1))
		second := assessment.Analyze(ans)

		_, err = s.SaveSnapshot(ctx, sess.ID, first)
		require.NoError(t, err)
		_, err = s.SaveSnapshot(ctx, sess.ID, second)
		require.NoError(t, err)

		snaps, err := s.RecentSnapshots(ctx, sess.ID, 5)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, second, snaps[0].Result)
		assert.Equal(t, first, snaps[1].Result)

		snaps, err = s.RecentSnapshots(ctx, sess.ID, 1)
		require.NoError(t, err)
		assert.Len(t, snaps, 1)
	})

	t.Run("narratives", func(t *testing.T) {
		sess, err := s.CreateSession(ctx, "en")
		require.NoError(t, err)

		_, err = s.GetNarrative(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.SaveNarrative(ctx, &Narrative{SessionID: sess.ID, Language: "en", Model: "m1", Markdown: "# one"}))
		require.NoError(t, s.SaveNarrative(ctx, &Narrative{SessionID: sess.ID, Language: "en", Model: "m2", Markdown: "# two", Failed: 1}))

		n, err := s.GetNarrative(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "m2", n.Model)
		assert.Equal(t, "# two", n.Markdown)
		assert.Equal(t, 1, n.Failed)
		assert.False(t, n.CreatedAt.IsZero())

		require.NoError(t, s.DeleteSession(ctx, sess.ID))
		_, err = s.GetNarrative(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteStore(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	runStoreSuite(t, db)
}

func TestSQLiteStore_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "usermanual.db")
	db, err := Open(path, nil)
	require.NoError(t, err)

	sess, err := db.CreateSession(context.Background(), "en")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening runs migrations again without losing data.
	db, err = Open(path, nil)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestSQLiteStore_CascadeDelete(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	sess, err := db.CreateSession(ctx, "en")
	require.NoError(t, err)
	require.NoError(t, db.PutAnswer(ctx, sess.ID, 1, mustAnswer(t, assessment.ChoiceA, 1)))
	_, err = db.SaveSnapshot(ctx, sess.ID, assessment.Analyze(nil))
	require.NoError(t, err)
	require.NoError(t, db.DeleteSession(ctx, sess.ID))

	var n int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM answers").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n))
	assert.Zero(t, n)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("USERMANUAL_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("USERMANUAL_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database := "usermanual_test_" + time.Now().Format("20060102150405")
	m, err := OpenMongo(ctx, uri, database, nil)
	require.NoError(t, err)
	defer func() {
		_ = m.client.Database(database).Drop(context.Background())
		_ = m.Close()
	}()

	runStoreSuite(t, m)
}

func TestDiffSnapshots(t *testing.T) {
	prev := &Snapshot{Result: assessment.Analyze(nil)}
	ans := assessment.NewAnswers()
	require.NoError(t, ans.Set(1, assessment.ChoiceB, 3)) // openness +3
	require.NoError(t, ans.Set(3, assessment.ChoiceB, 2))
	curr := &Snapshot{Result: assessment.Analyze(ans)}

	diff := DiffSnapshots(prev, curr)
	require.Len(t, diff.Deltas, len(assessment.Traits()))

	byTrait := map[assessment.Trait]TraitDelta{}
	for _, d := range diff.Deltas {
		byTrait[d.Trait] = d
	}
	assert.Equal(t, TraitDelta{Trait: assessment.Openness, Previous: 5, Current: 8, Delta: 3, Direction: "up"}, byTrait[assessment.Openness])
	assert.Equal(t, "unchanged", byTrait[assessment.Power].Direction)

	assert.Empty(t, DiffSnapshots(nil, curr).Deltas)
}
