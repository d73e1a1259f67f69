package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/output"
	"github.com/blackwell-systems/usermanual/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List assessment sessions",
	Long: `List every stored session, most recently updated first. Sessions can be
referred to by any unique id prefix.

Examples:
  usermanual sessions
  usermanual sessions rm 1a2b3c4d`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

var sessionsRmCmd = &cobra.Command{
	Use:     "rm <session>...",
	Aliases: []string{"delete"},
	Short:   "Delete sessions with their answers, snapshots and narrative",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSessionsRm,
}

func init() {
	sessionsCmd.AddCommand(sessionsRmCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sessions, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if flagJSON {
		if sessions == nil {
			sessions = []store.Session{}
		}
		return writeJSON(sessions)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Start one with: usermanual start")
		return nil
	}

	total := assessment.StructureCatalog().Len()
	t := output.NewTable("ID", "LANG", "ANSWERED", "UPDATED", "CREATED")
	for _, s := range sessions {
		answered := fmt.Sprintf("%d/%d", s.AnswerCount, total)
		if s.AnswerCount == total {
			answered = output.StyleSuccess.Render(answered)
		}
		t.AddRow(shortID(s.ID), s.Language, answered, relTime(s.UpdatedAt), s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	t.Print()
	return nil
}

func runSessionsRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, ref := range args {
		sess, err := resolveSession(ctx, svc, ref)
		if err != nil {
			return err
		}
		if err := svc.Delete(ctx, sess.ID); err != nil {
			return fmt.Errorf("deleting %s: %w", shortID(sess.ID), err)
		}
		fmt.Printf("Deleted %s\n", shortID(sess.ID))
	}
	return nil
}

// relTime formats t relative to now for table display.
func relTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
