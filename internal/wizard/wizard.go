// Package wizard is the interactive terminal questionnaire: one question at
// a time, pick A or B, then rate how strongly it fits.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
)

// Saver persists answers as they are given.
type Saver interface {
	SetAnswer(ctx context.Context, id string, questionID int, choice assessment.Choice, intensity int) error
}

type stage int

const (
	stageChoose stage = iota
	stageIntensity
)

type savedMsg struct {
	questionID int
	err        error
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#64b5f6"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	optionStyle   = lipgloss.NewStyle().PaddingLeft(2)
	chosenStyle   = lipgloss.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("#66bb6a"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef5350"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Model is the bubbletea model for one session.
type Model struct {
	ctx       context.Context
	sessionID string
	bundle    *locale.Bundle
	questions []assessment.Question
	answers   *assessment.Answers
	saver     Saver

	index    int
	stage    stage
	pending  assessment.Choice
	progress progress.Model
	err      error
	done     bool
	quit     bool
}

// New starts at the first unanswered question of the bundle's catalog.
func New(ctx context.Context, sessionID string, b *locale.Bundle, answers *assessment.Answers, saver Saver) Model {
	if answers == nil {
		answers = assessment.NewAnswers()
	}
	qs := b.Catalog().Questions()
	m := Model{
		ctx:       ctx,
		sessionID: sessionID,
		bundle:    b,
		questions: qs,
		answers:   answers.Clone(),
		saver:     saver,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.index = len(qs)
	for i, q := range qs {
		if _, ok := m.answers.Get(q.ID); !ok {
			m.index = i
			break
		}
	}
	m.done = m.index == len(qs)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(msg.Width-8, 10)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("saving question %d: %w", msg.questionID, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quit = true
			return m, tea.Quit
		}
		if m.stage == stageIntensity {
			return m.updateIntensity(msg)
		}
		return m.updateChoose(msg)
	}
	return m, nil
}

func (m Model) updateChoose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "a":
		m.pending, m.stage = assessment.ChoiceA, stageIntensity
	case "b":
		m.pending, m.stage = assessment.ChoiceB, stageIntensity
	case "left", "backspace", "p":
		if m.index > 0 {
			m.index--
		}
	case "right", "n":
		if _, ok := m.answers.Get(m.current().ID); ok {
			return m.advance()
		}
	}
	return m, nil
}

func (m Model) updateIntensity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3":
		intensity := int(msg.String()[0] - '0')
		q := m.current()
		if err := m.answers.Set(q.ID, m.pending, intensity); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.stage = stageChoose
		next, cmd := m.advance()
		return next, tea.Batch(m.save(q.ID, m.pending, intensity), cmd)
	case "esc", "backspace", "left":
		m.stage = stageChoose
	}
	return m, nil
}

func (m Model) save(questionID int, choice assessment.Choice, intensity int) tea.Cmd {
	if m.saver == nil {
		return nil
	}
	ctx, id, saver := m.ctx, m.sessionID, m.saver
	return func() tea.Msg {
		return savedMsg{questionID: questionID, err: saver.SetAnswer(ctx, id, questionID, choice, intensity)}
	}
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	m.index++
	if m.index >= len(m.questions) {
		m.index = len(m.questions) - 1
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) current() assessment.Question {
	return m.questions[m.index]
}

// Done reports whether every question has been answered.
func (m Model) Done() bool { return m.done }

// Quit reports whether the user left before finishing.
func (m Model) Quit() bool { return m.quit }

// Answers returns the answers given so far, including earlier ones.
func (m Model) Answers() *assessment.Answers { return m.answers.Clone() }

// Err returns the last save error, if any.
func (m Model) Err() error { return m.err }

func (m Model) View() string {
	if m.done || m.quit || len(m.questions) == 0 {
		return ""
	}
	b := m.bundle
	q := m.current()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(b.PhaseTitle(q.Phase)) + "\n")
	sb.WriteString(categoryStyle.Render(b.PhaseDescription(q.Phase)) + "\n\n")

	done := float64(m.answers.Len()) / float64(len(m.questions))
	sb.WriteString(m.progress.ViewAs(done))
	sb.WriteString(fmt.Sprintf("  %s %d/%d\n\n", b.Text("question"), m.index+1, len(m.questions)))

	sb.WriteString(categoryStyle.Render(q.Category) + "\n")
	if q.Scenario != "" {
		sb.WriteString(q.Scenario + "\n")
	}
	if q.Context != "" {
		sb.WriteString(q.Context + "\n")
	}
	sb.WriteString("\n")

	prev, answered := m.answers.Get(q.ID)
	for _, opt := range []struct {
		choice assessment.Choice
		text   string
	}{{assessment.ChoiceA, q.OptionA}, {assessment.ChoiceB, q.OptionB}} {
		line := fmt.Sprintf("[%s] %s", opt.choice, opt.text)
		selected := (m.stage == stageIntensity && m.pending == opt.choice) ||
			(m.stage == stageChoose && answered && prev.Choice == opt.choice)
		if selected {
			sb.WriteString(chosenStyle.Render(line) + "\n")
		} else {
			sb.WriteString(optionStyle.Render(line) + "\n")
		}
	}
	sb.WriteString("\n")

	if m.stage == stageIntensity {
		sb.WriteString(fmt.Sprintf("%s  [1] %s  [2] %s  [3] %s\n", b.Text("howStrongly"),
			b.Intensity(assessment.Slightly), b.Intensity(assessment.Clearly), b.Intensity(assessment.Strongly)))
	} else {
		sb.WriteString(b.Text("choosePrompt") + "\n")
	}

	if m.err != nil {
		sb.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	sb.WriteString("\n" + helpStyle.Render(fmt.Sprintf("a/b choose • 1-3 rate • ←/p %s • →/n %s • q quit",
		strings.Trim(b.Text("back"), "← "), strings.Trim(b.Text("next"), " →"))))
	return sb.String()
}

// Run drives the wizard until the user finishes or quits.
func Run(m Model, opts ...tea.ProgramOption) (Model, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
