package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/output"
	"github.com/blackwell-systems/usermanual/internal/session"
	"github.com/blackwell-systems/usermanual/internal/store"
	"github.com/blackwell-systems/usermanual/internal/wizard"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new assessment in the interactive wizard",
	Long: `Create a new session and walk through the questions one at a time.
Pick A or B, then rate how strongly it fits (1 slightly, 2 clearly,
3 strongly). Every answer is saved as you go; quit at any time and pick up
later with 'usermanual resume'.

Examples:
  usermanual start
  usermanual start --lang de`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

var resumeCmd = &cobra.Command{
	Use:   "resume <session>",
	Short: "Continue the wizard for an existing session",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := svc.Create(ctx, cfg.Language)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	fmt.Printf("Session %s\n", sess.ID)
	return runWizard(ctx, svc, sess)
}

func runResume(cmd *cobra.Command, args []string) error {
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
	return runWizard(ctx, svc, sess)
}

func runWizard(ctx context.Context, svc *session.Service, sess *store.Session) error {
	b, err := locale.Get(sess.Language)
	if err != nil {
		return err
	}
	answers, err := svc.Answers(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("loading answers: %w", err)
	}

	m, err := wizard.Run(wizard.New(ctx, sess.ID, b, answers, svc))
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}
	if m.Err() != nil {
		return m.Err()
	}
	if !m.Done() {
		fmt.Printf("Progress saved (%d/%d). Resume with: usermanual resume %s\n",
			m.Answers().Len(), b.Catalog().Len(), shortID(sess.ID))
		return nil
	}

	result, err := svc.Analyze(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}
	renderAnalysis(b, result, m.Answers().Len())
	fmt.Println()
	fmt.Println(output.StyleMuted.Render(fmt.Sprintf(
		"Next: usermanual report %s --format html --out manual.html, or usermanual narrative %s",
		shortID(sess.ID), shortID(sess.ID))))
	return nil
}
