package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
)

var answerClear bool

var answerCmd = &cobra.Command{
	Use:   "answer <session> <question> [A|B] [1-3]",
	Short: "Record or clear a single answer",
	Long: `Record the answer to one question without the wizard. Answering a
question again overwrites the earlier answer.

Examples:
  usermanual answer 1a2b3c4d 12 B 3
  usermanual answer 1a2b3c4d 12 --clear`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runAnswer,
}

func init() {
	answerCmd.Flags().BoolVar(&answerClear, "clear", false, "Remove the answer instead of setting it")
	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	qid, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid question id %q", args[1])
	}
	if !answerClear && len(args) != 4 {
		return fmt.Errorf("expected <session> <question> <A|B> <1-3>")
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := resolveSession(ctx, svc, args[0])
	if err != nil {
		return err
	}

	if answerClear {
		if err := svc.ClearAnswer(ctx, sess.ID, qid); err != nil {
			return err
		}
		fmt.Printf("Cleared Q%d\n", qid)
		return nil
	}

	choice, err := assessment.ParseChoice(args[2])
	if err != nil {
		return err
	}
	intensity, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("invalid intensity %q: %w", args[3], assessment.ErrInvalidIntensity)
	}
	if err := svc.SetAnswer(ctx, sess.ID, qid, choice, intensity); err != nil {
		return err
	}

	b, err := locale.Get(sess.Language)
	if err != nil {
		return err
	}
	q, _ := b.Catalog().Lookup(qid)
	picked := q.OptionA
	if choice == assessment.ChoiceB {
		picked = q.OptionB
	}
	fmt.Printf("Q%d: %s (%s) %s\n", qid, choice, b.Intensity(assessment.Intensity(intensity)), picked)
	return nil
}
