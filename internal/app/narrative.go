package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/narrative"
	"github.com/blackwell-systems/usermanual/internal/output"
	"github.com/blackwell-systems/usermanual/internal/report"
	"github.com/blackwell-systems/usermanual/internal/session"
	"github.com/blackwell-systems/usermanual/internal/store"
)

var (
	narrativeOut        string
	narrativeFormat     string
	narrativePromptOnly bool
	narrativeRegenerate bool
)

var narrativeCmd = &cobra.Command{
	Use:   "narrative <session>",
	Short: "Write the long-form narrative report with Gemini",
	Long: `Generate the ten-chapter narrative for a session. Each chapter is written
by the configured Gemini model from the session's answers and scores; a
chapter that fails is marked in the text and the rest still complete. The
result is stored with the session and shown again on later runs unless
--regenerate is given.

Requires narrative.api_key in the config or GEMINI_API_KEY in the
environment. --prompt-only prints the chapter prompts instead, for use
with another model.

Examples:
  usermanual narrative 1a2b3c4d
  usermanual narrative 1a2b3c4d --format html --out narrative.html
  usermanual narrative 1a2b3c4d --prompt-only`,
	Args: cobra.ExactArgs(1),
	RunE: runNarrative,
}

func init() {
	narrativeCmd.Flags().StringVarP(&narrativeOut, "out", "o", "", "Write to file instead of stdout")
	narrativeCmd.Flags().StringVar(&narrativeFormat, "format", "term", "Output format: md, html, term")
	narrativeCmd.Flags().BoolVar(&narrativePromptOnly, "prompt-only", false, "Print the chapter prompts without calling the model")
	narrativeCmd.Flags().BoolVar(&narrativeRegenerate, "regenerate", false, "Generate again even if a narrative is stored")
	rootCmd.AddCommand(narrativeCmd)
}

func runNarrative(cmd *cobra.Command, args []string) error {
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

	if !narrativeRegenerate && !narrativePromptOnly {
		stored, err := svc.Narrative(ctx, sess.ID)
		if err == nil {
			return renderNarrative(b, stored.Markdown)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}

	pd, err := svc.Prompt(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("building prompts: %w", err)
	}
	if pd.Answered == 0 {
		return fmt.Errorf("session %s has no answers yet", shortID(sess.ID))
	}
	prompts := narrative.BuildPrompts(b.Name(), pd.Data, pd.Scores)

	if narrativePromptOnly {
		if flagJSON {
			return writeJSON(prompts)
		}
		return emit(strings.Join(prompts, "\n\n---\n\n")+"\n", narrativeOut)
	}

	n, err := generateNarrative(ctx, svc, b, sess.ID, prompts)
	if err != nil {
		return err
	}
	return renderNarrative(b, n.Markdown)
}

func generateNarrative(ctx context.Context, svc *session.Service, b *locale.Bundle, sessionID string, prompts []string) (*store.Narrative, error) {
	gen, err := narrative.NewGemini(ctx, cfg.Narrative.APIKey, cfg.Narrative.Model)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(os.Stderr, b.Text("generating"))
	w := narrative.NewWriter(gen,
		narrative.WithConcurrency(cfg.Narrative.Concurrency),
		narrative.WithChapterTimeout(cfg.Narrative.ChapterTimeout),
		narrative.WithLogger(logger),
		narrative.WithProgress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "  %s %d/%d\n", b.Text("chapter"), done, total)
		}),
	)
	res, err := w.Write(ctx, prompts)
	if err != nil {
		return nil, fmt.Errorf("writing narrative: %w", err)
	}
	if res.Failed > 0 {
		fmt.Fprintln(os.Stderr, output.StyleWarning.Render(
			fmt.Sprintf("%d of %d chapters failed; they are marked in the text", res.Failed, len(prompts))))
	}

	n := &store.Narrative{
		SessionID: sessionID,
		Language:  b.Lang(),
		Model:     gen.Model(),
		Markdown:  res.Markdown,
		Failed:    res.Failed,
		CreatedAt: time.Now(),
	}
	if err := svc.SaveNarrative(ctx, n); err != nil {
		// The text is still shown; only the stored copy is missing.
		logger.Warn("saving narrative", zap.Error(err))
	}
	return n, nil
}

func renderNarrative(b *locale.Bundle, markdown string) error {
	var out string
	var err error
	switch narrativeFormat {
	case "md", "markdown":
		out = markdown
	case "html":
		out, err = report.NarrativeHTML(markdown, b.Text("title"), b.Lang())
	case "term", "terminal":
		out, err = report.Terminal(markdown, cfg.Output.Width, !output.IsNoColor())
	default:
		return fmt.Errorf("unknown format %q (use md, html or term)", narrativeFormat)
	}
	if err != nil {
		return fmt.Errorf("rendering narrative: %w", err)
	}
	return emit(out, narrativeOut)
}
