package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/locale"
	"github.com/blackwell-systems/usermanual/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <session>",
	Short: "Score a session and show the results",
	Long: `Show trait bars for temperament, action modes and core drivers, the
contextual contrasts, stress patterns, environment fit and operational
rules. Partial sessions are scored too; unanswered questions leave traits
at their baseline.

Examples:
  usermanual analyze 1a2b3c4d
  usermanual analyze 1a2b3c4d --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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
	result, err := svc.Analyze(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}
	if flagJSON {
		return writeJSON(result)
	}

	b, err := locale.Get(sess.Language)
	if err != nil {
		return err
	}
	renderAnalysis(b, result, sess.AnswerCount)
	return nil
}

// renderAnalysis prints the terminal view of an analysis.
func renderAnalysis(b *locale.Bundle, result assessment.AnalysisResult, answered int) {
	total := assessment.StructureCatalog().Len()
	fmt.Printf(" %s %s\n", output.StyleHeader.Render(b.Text("architecture")),
		output.StyleMuted.Render(fmt.Sprintf("(%d/%d %s)", answered, total, b.Text("answered"))))

	for _, g := range assessment.TraitGroups() {
		fmt.Println(output.Section(b.GroupTitle(g)))
		for _, t := range g.Traits() {
			fmt.Printf("  %s %s\n", output.StyleLabel.Render(b.Trait(t)), output.TraitBar(g, result.Traits.Get(t)))
		}
	}

	fmt.Println(output.Section(b.Text("contextualContrasts")))
	ct := output.NewTable(b.Text("trait"), b.Text("closeButNot"), b.Text("clearlyNot"))
	for _, c := range result.Contrasts {
		ct.AddRow(b.Dimension(c.Dimension), b.Descriptor(c.CloseButNot), b.Descriptor(c.ClearlyNot))
	}
	ct.Print()

	fmt.Println(output.Section(b.Text("darkSide")))
	if len(result.StressPatterns) == 0 {
		fmt.Println(output.Bullet(output.StyleMuted.Render("·"), output.StyleMuted.Render(b.Text("completeForAnalysis"))))
	}
	for _, p := range result.StressPatterns {
		fmt.Println(output.Bullet(output.StyleWarning.Render("!"), b.Pattern(p)))
	}

	fmt.Println(output.Section(b.Text("environmentFit")))
	et := output.NewTable(b.Text("trait"), b.Text("thrivesIn"), b.Text("failsIn"))
	for _, e := range result.Environment {
		et.AddRow(b.Trait(e.Trait), output.StyleSuccess.Render(b.Descriptor(e.Thrives)), output.StyleError.Render(b.Descriptor(e.Fails)))
	}
	et.Print()

	fmt.Println(output.Section(b.Text("operationalRules")))
	if len(result.OperationalRules) == 0 {
		fmt.Println(output.Bullet(output.StyleMuted.Render("·"), output.StyleMuted.Render(b.Text("completePhase3"))))
	}
	for i, r := range result.OperationalRules {
		fmt.Println(output.Bullet(output.StyleBold.Render(fmt.Sprintf("%s %d:", b.Text("rule"), i+1)), b.Rule(r)))
	}
}
