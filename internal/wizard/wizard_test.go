package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
)

type recordSaver struct {
	saved []int
	err   error
}

func (r *recordSaver) SetAnswer(_ context.Context, _ string, questionID int, _ assessment.Choice, _ int) error {
	r.saved = append(r.saved, questionID)
	return r.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys and runs any resulting commands, returning the final model.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	var model tea.Model = m
	for _, k := range keys {
		var cmd tea.Cmd
		model, cmd = model.Update(key(k))
		model = drain(model, cmd)
	}
	return model.(Model)
}

func drain(model tea.Model, cmd tea.Cmd) tea.Model {
	if cmd == nil {
		return model
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			model = drain(model, c)
		}
		return model
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return model
	}
	model, cmd = model.Update(msg)
	return drain(model, cmd)
}

func TestWizard_AnswerFlow(t *testing.T) {
	saver := &recordSaver{}
	m := New(context.Background(), "s1", locale.MustGet("en"), nil, saver)
	require.False(t, m.Done())

	view := m.View()
	assert.Contains(t, view, "Phase 1: Discovery")
	assert.Contains(t, view, "1/43")

	m = press(t, m, "b")
	assert.Contains(t, m.View(), "Strongly")

	m = press(t, m, "3")
	a, ok := m.Answers().Get(1)
	require.True(t, ok)
	assert.Equal(t, assessment.ChoiceB, a.Choice)
	assert.Equal(t, assessment.Strongly, a.Intensity)
	assert.Equal(t, []int{1}, saver.saved)
	assert.Contains(t, m.View(), "2/43")
}

func TestWizard_BackAndCancel(t *testing.T) {
	m := New(context.Background(), "s1", locale.MustGet("en"), nil, nil)
	m = press(t, m, "a", "1", "left")
	assert.Contains(t, m.View(), "1/43")

	// Escape from the intensity step returns to choosing.
	m = press(t, m, "b", "esc")
	assert.Contains(t, m.View(), locale.MustGet("en").Text("choosePrompt"))

	// Invalid intensity keys are ignored.
	m = press(t, m, "a", "7")
	assert.Contains(t, m.View(), "How strongly?")
}

func TestWizard_ResumesAtFirstUnanswered(t *testing.T) {
	ans := assessment.NewAnswers()
	for id := 1; id <= 5; id++ {
		require.NoError(t, ans.Set(id, assessment.ChoiceA, 2))
	}
	m := New(context.Background(), "s1", locale.MustGet("de"), ans, nil)
	assert.Contains(t, m.View(), "6/43")
	assert.Contains(t, m.View(), "Frage")

	// Input answers are not modified by the wizard.
	m = press(t, m, "a", "1")
	assert.Equal(t, 5, ans.Len())
	assert.Equal(t, 6, m.Answers().Len())
}

func TestWizard_FinishesAfterLastQuestion(t *testing.T) {
	ans := assessment.RandomAnswers(assessment.StructureCatalog(), nil)
	ans.Clear(43)
	m := New(context.Background(), "s1", locale.MustGet("en"), ans, nil)
	assert.Contains(t, m.View(), "43/43")

	m = press(t, m, "b", "2")
	assert.True(t, m.Done())
	assert.Equal(t, 43, m.Answers().Len())
	assert.Empty(t, m.View())
}

func TestWizard_AlreadyComplete(t *testing.T) {
	ans := assessment.RandomAnswers(assessment.StructureCatalog(), nil)
	m := New(context.Background(), "s1", locale.MustGet("en"), ans, nil)
	assert.True(t, m.Done())
	assert.NotNil(t, m.Init())
}

func TestWizard_SaveError(t *testing.T) {
	saver := &recordSaver{err: errors.New("disk full")}
	m := New(context.Background(), "s1", locale.MustGet("en"), nil, saver)
	m = press(t, m, "a", "2")
	require.Error(t, m.Err())
	assert.True(t, strings.Contains(m.View(), "disk full"))
}

func TestWizard_Quit(t *testing.T) {
	m := New(context.Background(), "s1", locale.MustGet("en"), nil, nil)
	m = press(t, m, "q")
	assert.True(t, m.Quit())
	assert.False(t, m.Done())
}
