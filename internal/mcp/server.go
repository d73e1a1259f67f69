// Package mcp exposes assessment sessions to MCP clients over stdio: create
// a session, answer questions, and read the analysis or narrative prompt.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/session"
	"github.com/blackwell-systems/usermanual/internal/store"
)

// Sessions is the subset of session.Service the tools use.
type Sessions interface {
	Create(ctx context.Context, lang string) (*store.Session, error)
	Get(ctx context.Context, id string) (*store.Session, error)
	SetAnswer(ctx context.Context, id string, questionID int, choice assessment.Choice, intensity int) error
	ClearAnswer(ctx context.Context, id string, questionID int) error
	Analyze(ctx context.Context, id string) (assessment.AnalysisResult, error)
	Prompt(ctx context.Context, id string) (*session.PromptData, error)
}

// New builds the MCP server with every tool registered. defaultLang is used
// when a tool call names no language.
func New(svc Sessions, defaultLang, version string, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"usermanual",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	createTool := NewCreateSessionTool(svc, defaultLang)
	s.AddTool(createTool.Definition(), createTool.Handle)

	listTool := NewListQuestionsTool(defaultLang)
	s.AddTool(listTool.Definition(), listTool.Handle)

	answerTool := NewSetAnswerTool(svc, log)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	clearTool := NewClearAnswerTool(svc)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	analysisTool := NewAnalysisTool(svc)
	s.AddTool(analysisTool.Definition(), analysisTool.Handle)

	reportTool := NewReportTool(svc)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	promptTool := NewPromptTool(svc)
	s.AddTool(promptTool.Definition(), promptTool.Handle)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `usermanual runs a 43-question forced-choice personality assessment.
Typical flow: create_session, then list_questions and set_answer for each
question (choice A or B, intensity 1-3), then get_analysis or get_report.
get_narrative_prompt returns the text a writer model needs for the long-form
report.`
