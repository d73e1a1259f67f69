package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/output"
	"github.com/blackwell-systems/usermanual/internal/watcher"
)

var (
	watchDebounce time.Duration
	watchNotify   bool
	watchQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <answers.yaml>",
	Short: "Re-score an answers file whenever it changes",
	Long: `Watch a YAML answers file (see 'usermanual export') and re-analyze it on
every save. Alerts are printed when a stress pattern appears or resolves,
a trait moves, an operational rule is added, or a phase is completed.

Examples:
  usermanual watch answers.yaml
  usermanual watch answers.yaml --notify      # also raise desktop notifications`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Wait this long after the last write before re-scoring")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Only print alerts, not the trait summary")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	notifier := watcher.Notifier{Out: os.Stdout, Desktop: watchNotify}
	alertFn := func(a watcher.Alert) {
		if err := notifier.Notify(a); err != nil {
			logger.Debug("notification failed", zap.Error(err))
		}
	}

	w := watcher.New(args[0], watchDebounce, alertFn, logger)
	if !watchQuiet {
		w.OnUpdate = printWatchState
	}

	fmt.Printf("usermanual watching %s... (ctrl-c to stop)\n", args[0])
	err := w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nStopped.")
		return nil
	}
	return err
}

// printWatchState prints a compact trait summary after each read.
func printWatchState(st *watcher.State) {
	b, err := locale.Get(st.Language)
	if err != nil {
		return
	}
	fmt.Printf("\n[%s] %d/%d %s\n", st.Timestamp.Format("15:04:05"), st.Answered,
		assessment.StructureCatalog().Len(), b.Text("answered"))
	for _, g := range assessment.TraitGroups() {
		for _, t := range g.Traits() {
			fmt.Printf("  %s %s\n", output.StyleLabel.Render(b.Trait(t)), output.TraitBar(g, st.Result.Traits.Get(t)))
		}
	}
}
