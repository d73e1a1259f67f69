package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/output"
	"github.com/blackwell-systems/usermanual/internal/store"
)

var trackHistory int

var trackCmd = &cobra.Command{
	Use:   "track <session>",
	Short: "Snapshot the analysis and compare with the previous snapshot",
	Long: `Store the session's current analysis as a snapshot and show how every
trait moved since the previous snapshot. Useful after revisiting answers or
retaking parts of the assessment.

Examples:
  usermanual track 1a2b3c4d
  usermanual track 1a2b3c4d --history 5   # list recent snapshots only`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "List the N most recent snapshots instead of taking one")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
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

	if trackHistory > 0 {
		snaps, err := svc.History(ctx, sess.ID, trackHistory)
		if err != nil {
			return fmt.Errorf("loading snapshots: %w", err)
		}
		if flagJSON {
			return writeJSON(snaps)
		}
		renderHistory(b, snaps)
		return nil
	}

	snap, err := svc.Snapshot(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	recent, err := svc.History(ctx, sess.ID, 2)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}
	var prev *store.Snapshot
	if len(recent) == 2 {
		prev = &recent[1]
	}
	diff := store.DiffSnapshots(prev, snap)

	if flagJSON {
		return writeJSON(diff)
	}
	if prev == nil {
		fmt.Printf("Snapshot %d saved. This is the first snapshot; run track again later to compare.\n", snap.ID)
		return nil
	}

	fmt.Printf("Snapshot %d compared with %s\n", snap.ID, prev.TakenAt.Local().Format("2006-01-02 15:04"))
	t := output.NewTable(b.Text("trait"), "BEFORE", "NOW", "CHANGE")
	for _, d := range diff.Deltas {
		t.AddRow(b.Trait(d.Trait), fmt.Sprint(d.Previous), fmt.Sprint(d.Current), output.DeltaArrow(d.Delta))
	}
	t.Print()
	return nil
}

func renderHistory(b *locale.Bundle, snaps []store.Snapshot) {
	if len(snaps) == 0 {
		fmt.Println("No snapshots yet. Run: usermanual track <session>")
		return
	}
	t := output.NewTable("ID", "TAKEN", b.Text("darkSide"), b.Text("operationalRules"))
	for _, s := range snaps {
		t.AddRow(fmt.Sprint(s.ID), s.TakenAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprint(len(s.Result.StressPatterns)), fmt.Sprint(len(s.Result.OperationalRules)))
	}
	t.Print()
}
