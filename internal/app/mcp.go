package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server",
	Long: `Start a Model Context Protocol stdio server so an assistant can run the
assessment with you. The server exposes these tools:

  create_session        Start a session
  list_questions        The question catalog, optionally one phase
  set_answer            Record an answer (A/B, intensity 1-3)
  clear_answer          Remove an answer
  get_analysis          Scores, patterns, rules, contrasts, environment fit
  get_report            The summary report as Markdown
  get_narrative_prompt  Input for writing the long-form narrative

Add to your MCP client configuration:
  {"mcpServers":{"usermanual":{"command":"usermanual","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	return mcp.Serve(mcp.New(svc, cfg.Language, appVersion, logger))
}
