package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/usermanual/internal/answerfile"
)

var (
	exportOut    string
	importTarget string
)

var exportCmd = &cobra.Command{
	Use:   "export <session>",
	Short: "Export a session's answers as YAML",
	Long: `Write a session's answers to a YAML file that can be edited by hand,
re-imported, or watched with 'usermanual watch'.

Examples:
  usermanual export 1a2b3c4d --out answers.yaml
  usermanual export 1a2b3c4d > answers.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import answers from a YAML file",
	Long: `Create a new session from an answers file, or replace the answers of an
existing session with --session.

Examples:
  usermanual import answers.yaml
  usermanual import answers.yaml --session 1a2b3c4d`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to file instead of stdout")
	importCmd.Flags().StringVar(&importTarget, "session", "", "Replace the answers of this session instead of creating one")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	answers, err := svc.Answers(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("loading answers: %w", err)
	}

	data, err := answerfile.New(sess.Language, sess.ID, answers, time.Now()).Marshal()
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	return emit(string(data), exportOut)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f, err := answerfile.Read(args[0])
	if err != nil {
		return err
	}
	answers, err := f.AnswerSet()
	if err != nil {
		return err
	}

	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var id string
	if importTarget != "" {
		sess, err := resolveSession(ctx, svc, importTarget)
		if err != nil {
			return err
		}
		id = sess.ID
	} else {
		sess, err := svc.Create(ctx, f.Language)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		id = sess.ID
	}

	if err := svc.ReplaceAnswers(ctx, id, answers); err != nil {
		return fmt.Errorf("saving answers: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Imported %d answers into %s\n", answers.Len(), shortID(id))
	fmt.Println(id)
	return nil
}
