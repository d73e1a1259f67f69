package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/output"
	"github.com/blackwell-systems/usermanual/internal/report"
)

var (
	reportFormat string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report <session>",
	Short: "Render the summary report",
	Long: `Render the summary report for a session as Markdown, print-ready HTML,
or formatted for the terminal.

Examples:
  usermanual report 1a2b3c4d                              # terminal
  usermanual report 1a2b3c4d --format md --out manual.md
  usermanual report 1a2b3c4d --format html --out manual.html`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "term", "Output format: md, html, term")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := resolveSession(ctx, svc, args[0])
	if err != nil {
		return err
	}
	b, err := locale.Get(sess.Language)
	if err != nil {
		return err
	}
	result, err := svc.Analyze(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	now := time.Now()
	var out string
	switch reportFormat {
	case "md", "markdown":
		out = report.Markdown(result, b, now)
	case "html":
		out, err = report.HTML(result, b, now)
	case "term", "terminal":
		out, err = report.Terminal(report.Markdown(result, b, now), cfg.Output.Width, !output.IsNoColor())
	default:
		return fmt.Errorf("unknown format %q (use md, html or term)", reportFormat)
	}
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return emit(out, reportOut)
}

// emit writes out to path, or to stdout when path is empty.
func emit(out, path string) error {
	if path == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
