package app

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/assessment"
)

var (
	fillSeed        uint64
	fillOnlyMissing bool
)

var fillCmd = &cobra.Command{
	Use:   "fill <session>",
	Short: "Answer every question at random",
	Long: `Fill a session with random answers, for demos and for trying the
reports without taking the assessment. Existing answers are replaced unless
--only-missing is given. --seed makes the answers repeatable.`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().Uint64Var(&fillSeed, "seed", 0, "Random seed (0 picks one)")
	fillCmd.Flags().BoolVar(&fillOnlyMissing, "only-missing", false, "Keep existing answers and fill the rest")
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
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

	var rng *rand.Rand
	if fillSeed != 0 {
		rng = rand.New(rand.NewPCG(fillSeed, fillSeed))
	}
	answers := assessment.RandomAnswers(assessment.StructureCatalog(), rng)

	if fillOnlyMissing {
		existing, err := svc.Answers(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("loading answers: %w", err)
		}
		for id, a := range existing.Map() {
			_ = answers.Set(id, a.Choice, int(a.Intensity))
		}
	}

	if err := svc.ReplaceAnswers(ctx, sess.ID, answers); err != nil {
		return fmt.Errorf("saving answers: %w", err)
	}
	fmt.Printf("Filled %s: %d/%d answered\n", shortID(sess.ID), answers.Len(), assessment.StructureCatalog().Len())
	return nil
}
