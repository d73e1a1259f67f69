package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/session"
	"github.com/blackwell-systems/usermanual/internal/store"
)

func newTestService(t *testing.T) *session.Service {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.New(db, nil, nil)
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func createSession(t *testing.T, svc Sessions, lang string) string {
	t.Helper()
	res, err := NewCreateSessionTool(svc, "en").Handle(context.Background(), makeReq(map[string]interface{}{"language": lang}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var sess store.Session
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &sess))
	require.NotEmpty(t, sess.ID)
	return sess.ID
}

func TestDefinitions(t *testing.T) {
	svc := newTestService(t)
	tests := []struct {
		def      mcp.Tool
		name     string
		required []string
	}{
		{NewCreateSessionTool(svc, "en").Definition(), "create_session", nil},
		{NewListQuestionsTool("en").Definition(), "list_questions", nil},
		{NewSetAnswerTool(svc, nil).Definition(), "set_answer", []string{"session_id", "question_id", "choice", "intensity"}},
		{NewClearAnswerTool(svc).Definition(), "clear_answer", []string{"session_id", "question_id"}},
		{NewAnalysisTool(svc).Definition(), "get_analysis", []string{"session_id"}},
		{NewReportTool(svc).Definition(), "get_report", []string{"session_id"}},
		{NewPromptTool(svc).Definition(), "get_narrative_prompt", []string{"session_id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.def.Name)
			assert.NotEmpty(t, tt.def.Description)
			assert.ElementsMatch(t, tt.required, tt.def.InputSchema.Required)
		})
	}
}

func TestNew_RegistersTools(t *testing.T) {
	s := New(newTestService(t), "en", "test", nil)
	require.NotNil(t, s)
	tools := s.ListTools()
	for _, name := range []string{"create_session", "list_questions", "set_answer", "clear_answer", "get_analysis", "get_report", "get_narrative_prompt"} {
		assert.Contains(t, tools, name)
	}
}

func TestCreateSession_UnknownLanguage(t *testing.T) {
	res, err := NewCreateSessionTool(newTestService(t), "en").Handle(context.Background(), makeReq(map[string]interface{}{"language": "fr"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "unknown language")
}

func TestListQuestions(t *testing.T) {
	tool := NewListQuestionsTool("en")

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	text := resultText(res)
	assert.Contains(t, text, "Phase 1: Discovery")
	assert.Contains(t, text, "Q1 [")
	assert.Contains(t, text, "Q43 [")
	assert.Contains(t, text, "Scenario: ")
	assert.Contains(t, text, "Context: ")

	res, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"phase": float64(3)}))
	require.NoError(t, err)
	text = resultText(res)
	assert.NotContains(t, text, "Q1 [")
	assert.Contains(t, text, "Q36 [")

	res, err = tool.Handle(context.Background(), makeReq(map[string]interface{}{"phase": float64(9)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSetAnswer(t *testing.T) {
	svc := newTestService(t)
	id := createSession(t, svc, "en")
	tool := NewSetAnswerTool(svc, nil)
	ctx := context.Background()

	res, err := tool.Handle(ctx, makeReq(map[string]interface{}{
		"session_id": id, "question_id": float64(1), "choice": "B", "intensity": float64(3),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))
	assert.Equal(t, "Recorded Q1: B (strongly). 1/43 answered.", resultText(res))

	answers, err := svc.Answers(ctx, id)
	require.NoError(t, err)
	c, ok := answers.Choice(1)
	require.True(t, ok)
	assert.Equal(t, assessment.ChoiceB, c)
}

func TestSetAnswer_Rejects(t *testing.T) {
	svc := newTestService(t)
	id := createSession(t, svc, "en")
	tool := NewSetAnswerTool(svc, nil)

	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"missing session", map[string]interface{}{"question_id": float64(1), "choice": "A", "intensity": float64(1)}, "'session_id' is required"},
		{"missing question", map[string]interface{}{"session_id": id, "choice": "A", "intensity": float64(1)}, "'question_id' is required"},
		{"bad choice", map[string]interface{}{"session_id": id, "question_id": float64(1), "choice": "C", "intensity": float64(1)}, "choice must be A or B"},
		{"bad intensity", map[string]interface{}{"session_id": id, "question_id": float64(1), "choice": "A", "intensity": float64(4)}, "intensity must be"},
		{"unknown question", map[string]interface{}{"session_id": id, "question_id": float64(99), "choice": "A", "intensity": float64(1)}, "unknown question"},
		{"unknown session", map[string]interface{}{"session_id": "nope", "question_id": float64(1), "choice": "A", "intensity": float64(1)}, `session "nope" not found`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tool.Handle(context.Background(), makeReq(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(res), tt.want)
		})
	}
}

func TestClearAnswer(t *testing.T) {
	svc := newTestService(t)
	id := createSession(t, svc, "en")
	ctx := context.Background()
	require.NoError(t, svc.SetAnswer(ctx, id, 5, assessment.ChoiceA, 2))

	res, err := NewClearAnswerTool(svc).Handle(ctx, makeReq(map[string]interface{}{"session_id": id, "question_id": float64(5)}))
	require.NoError(t, err)
	assert.Equal(t, "Cleared Q5.", resultText(res))

	answers, err := svc.Answers(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, answers.Len())
}

func TestAnalysis(t *testing.T) {
	svc := newTestService(t)
	id := createSession(t, svc, "en")
	ctx := context.Background()
	require.NoError(t, svc.SetAnswer(ctx, id, 1, assessment.ChoiceB, 3))

	res, err := NewAnalysisTool(svc).Handle(ctx, makeReq(map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var got assessment.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &got))
	want, err := svc.Analyze(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want.Traits, got.Traits)
	assert.Len(t, got.Contrasts, 4)

	res, err = NewAnalysisTool(svc).Handle(ctx, makeReq(map[string]interface{}{"session_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReport(t *testing.T) {
	svc := newTestService(t)
	id := createSession(t, svc, "de")
	tool := NewReportTool(svc)
	tool.now = func() time.Time { return time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC) }

	res, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))
	assert.Contains(t, resultText(res), "07. März 2026")
}

func TestPrompt(t *testing.T) {
	svc := newTestService(t)
	id := createSession(t, svc, "en")
	ctx := context.Background()
	tool := NewPromptTool(svc)

	res, err := tool.Handle(ctx, makeReq(map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "no answers")

	require.NoError(t, svc.SetAnswer(ctx, id, 21, assessment.ChoiceA, 2))

	res, err = tool.Handle(ctx, makeReq(map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	base := resultText(res)
	assert.Contains(t, base, "Q21 [")
	assert.Contains(t, base, "CHOSE: A (clearly)")
	assert.Contains(t, base, "English")

	res, err = tool.Handle(ctx, makeReq(map[string]interface{}{"session_id": id, "chapter": float64(1)}))
	require.NoError(t, err)
	assert.True(t, len(resultText(res)) > len(base))
	assert.Contains(t, resultText(res), base)

	res, err = tool.Handle(ctx, makeReq(map[string]interface{}{"session_id": id, "chapter": float64(11)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
