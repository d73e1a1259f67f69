package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/logging"
	"github.com/blackwell-systems/usermanual/internal/narrative"
	"github.com/blackwell-systems/usermanual/internal/report"
	"github.com/blackwell-systems/usermanual/internal/store"
)

// toolError turns a service error into a tool-level error result so the
// client sees the message instead of a protocol failure.
func toolError(sessionID string, err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("session %q not found", sessionID)), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}

// --- create_session ---

// CreateSessionTool starts a new assessment session.
type CreateSessionTool struct {
	svc         Sessions
	defaultLang string
}

func NewCreateSessionTool(svc Sessions, defaultLang string) *CreateSessionTool {
	return &CreateSessionTool{svc: svc, defaultLang: defaultLang}
}

func (t *CreateSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("create_session",
		mcp.WithDescription("Start a new assessment session. Returns the session record; keep its id for the other tools."),
		mcp.WithString("language",
			mcp.Description("Language for questions and reports: en or de"),
		),
	)
}

func (t *CreateSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang := req.GetString("language", t.defaultLang)
	sess, err := t.svc.Create(ctx, lang)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sess)
}

// --- list_questions ---

// ListQuestionsTool lists the question catalog, optionally one phase.
type ListQuestionsTool struct {
	defaultLang string
}

func NewListQuestionsTool(defaultLang string) *ListQuestionsTool {
	return &ListQuestionsTool{defaultLang: defaultLang}
}

func (t *ListQuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_questions",
		mcp.WithDescription("List the assessment questions with both options. Each question is answered with choice A or B and an intensity of 1 (slightly), 2 (clearly) or 3 (strongly)."),
		mcp.WithString("language",
			mcp.Description("Language of the question text: en or de"),
		),
		mcp.WithNumber("phase",
			mcp.Description("Only list questions of this phase (1-3)"),
		),
	)
}

func (t *ListQuestionsTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := locale.Get(req.GetString("language", t.defaultLang))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	phase := intArg(req, "phase", 0)

	var sb strings.Builder
	for _, p := range assessment.Phases() {
		if phase != 0 && int(p) != phase {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n%s\n\n", b.PhaseTitle(p), b.PhaseDescription(p))
		for _, q := range b.Catalog().ByPhase(p) {
			fmt.Fprintf(&sb, "Q%d [%s]\n", q.ID, q.Category)
			if q.Scenario != "" {
				fmt.Fprintf(&sb, "  Scenario: %s\n", q.Scenario)
			}
			if q.Context != "" {
				fmt.Fprintf(&sb, "  Context: %s\n", q.Context)
			}
			fmt.Fprintf(&sb, "  A: %s\n  B: %s\n", q.OptionA, q.OptionB)
		}
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no phase %d (use 1-3)", phase)), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// --- set_answer ---

// SetAnswerTool records or overwrites one answer.
type SetAnswerTool struct {
	svc Sessions
	log *zap.Logger
}

func NewSetAnswerTool(svc Sessions, log *zap.Logger) *SetAnswerTool {
	return &SetAnswerTool{svc: svc, log: logging.OrNop(log)}
}

func (t *SetAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("set_answer",
		mcp.WithDescription("Record the answer to one question. Answering a question again overwrites the earlier answer."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from create_session"),
		),
		mcp.WithNumber("question_id",
			mcp.Required(),
			mcp.Description("Question id (1-43)"),
		),
		mcp.WithString("choice",
			mcp.Required(),
			mcp.Description("A or B"),
			mcp.Enum("A", "B"),
		),
		mcp.WithNumber("intensity",
			mcp.Required(),
			mcp.Description("1 = slightly, 2 = clearly, 3 = strongly"),
		),
	)
}

func (t *SetAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	qid := intArg(req, "question_id", 0)
	if qid == 0 {
		return mcp.NewToolResultError("'question_id' is required"), nil
	}
	choice, err := assessment.ParseChoice(req.GetString("choice", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	intensity := intArg(req, "intensity", 0)

	if err := t.svc.SetAnswer(ctx, id, qid, choice, intensity); err != nil {
		return toolError(id, err)
	}
	sess, err := t.svc.Get(ctx, id)
	if err != nil {
		return toolError(id, err)
	}
	t.log.Debug("answer recorded", zap.String("session", id), zap.Int("question", qid))

	return mcp.NewToolResultText(fmt.Sprintf("Recorded Q%d: %s (%s). %d/%d answered.",
		qid, choice, assessment.Intensity(intensity).Label(), sess.AnswerCount, assessment.StructureCatalog().Len())), nil
}

// --- clear_answer ---

// ClearAnswerTool removes one answer.
type ClearAnswerTool struct {
	svc Sessions
}

func NewClearAnswerTool(svc Sessions) *ClearAnswerTool {
	return &ClearAnswerTool{svc: svc}
}

func (t *ClearAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_answer",
		mcp.WithDescription("Remove the answer to one question so it counts as unanswered."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id"),
		),
		mcp.WithNumber("question_id",
			mcp.Required(),
			mcp.Description("Question id (1-43)"),
		),
	)
}

func (t *ClearAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	qid := intArg(req, "question_id", 0)
	if qid == 0 {
		return mcp.NewToolResultError("'question_id' is required"), nil
	}
	if err := t.svc.ClearAnswer(ctx, id, qid); err != nil {
		return toolError(id, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared Q%d.", qid)), nil
}

// --- get_analysis ---

// AnalysisTool returns the scored analysis as JSON.
type AnalysisTool struct {
	svc Sessions
}

func NewAnalysisTool(svc Sessions) *AnalysisTool {
	return &AnalysisTool{svc: svc}
}

func (t *AnalysisTool) Definition() mcp.Tool {
	return mcp.NewTool("get_analysis",
		mcp.WithDescription("Score the session: trait values 1-10, stress patterns, operational rules, contextual contrasts and environment fit. Works on partial answers."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id"),
		),
	)
}

func (t *AnalysisTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	result, err := t.svc.Analyze(ctx, id)
	if err != nil {
		return toolError(id, err)
	}
	return jsonResult(result)
}

// --- get_report ---

// ReportTool renders the Markdown summary report.
type ReportTool struct {
	svc Sessions
	now func() time.Time
}

func NewReportTool(svc Sessions) *ReportTool {
	return &ReportTool{svc: svc, now: time.Now}
}

func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("get_report",
		mcp.WithDescription("Render the summary report as Markdown in the session's language."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id"),
		),
	)
}

func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	sess, err := t.svc.Get(ctx, id)
	if err != nil {
		return toolError(id, err)
	}
	b, err := locale.Get(sess.Language)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.svc.Analyze(ctx, id)
	if err != nil {
		return toolError(id, err)
	}
	return mcp.NewToolResultText(report.Markdown(result, b, t.now())), nil
}

// --- get_narrative_prompt ---

// PromptTool returns the narrative writer's input so the client's own model
// can write the long-form report.
type PromptTool struct {
	svc Sessions
}

func NewPromptTool(svc Sessions) *PromptTool {
	return &PromptTool{svc: svc}
}

func (t *PromptTool) Definition() mcp.Tool {
	return mcp.NewTool("get_narrative_prompt",
		mcp.WithDescription(fmt.Sprintf("Return the prompt for one chapter of the long-form report (1-%d). Without a chapter, returns the shared context with the answers and scores.", len(narrative.Chapters()))),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id"),
		),
		mcp.WithNumber("chapter",
			mcp.Description("Chapter number; omit for the shared context only"),
		),
	)
}

func (t *PromptTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	pd, err := t.svc.Prompt(ctx, id)
	if err != nil {
		return toolError(id, err)
	}
	if pd.Answered == 0 {
		return mcp.NewToolResultError("session has no answers yet"), nil
	}
	b, err := locale.Get(pd.Language)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	base := narrative.BaseContext(b.Name(), pd.Data, pd.Scores)
	chapter := intArg(req, "chapter", 0)
	if chapter == 0 {
		return mcp.NewToolResultText(base), nil
	}
	chapters := narrative.Chapters()
	if chapter < 1 || chapter > len(chapters) {
		return mcp.NewToolResultError(fmt.Sprintf("chapter must be 1-%d", len(chapters))), nil
	}
	return mcp.NewToolResultText(chapters[chapter-1].Prompt(base)), nil
}
