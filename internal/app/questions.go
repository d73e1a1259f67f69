package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/output"
)

var questionsPhase int

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the question catalog",
	Long: `Print every question with both options, grouped by phase. Use --phase
to show one phase and --lang to pick the language.`,
	Args: cobra.NoArgs,
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().IntVar(&questionsPhase, "phase", 0, "Only list this phase (1-3)")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	b, err := locale.Get(cfg.Language)
	if err != nil {
		return err
	}
	phases := assessment.Phases()
	if questionsPhase != 0 {
		if questionsPhase < 1 || questionsPhase > len(phases) {
			return fmt.Errorf("phase must be 1-%d", len(phases))
		}
		phases = []assessment.Phase{assessment.Phase(questionsPhase)}
	}

	if flagJSON {
		var qs []assessment.Question
		for _, p := range phases {
			qs = append(qs, b.Catalog().ByPhase(p)...)
		}
		return writeJSON(qs)
	}

	for _, p := range phases {
		fmt.Println(output.Section(b.PhaseTitle(p)))
		fmt.Printf(" %s\n\n", output.StyleMuted.Render(b.PhaseDescription(p)))
		for _, q := range b.Catalog().ByPhase(p) {
			fmt.Printf(" %s %s\n", output.StyleBold.Render(fmt.Sprintf("Q%d", q.ID)), output.StyleMuted.Render(q.Category))
			if q.Scenario != "" {
				fmt.Printf("    %s\n", q.Scenario)
			}
			if q.Context != "" {
				fmt.Printf("    %s\n", q.Context)
			}
			fmt.Printf("    A  %s\n    B  %s\n\n", q.OptionA, q.OptionB)
		}
	}
	return nil
}
