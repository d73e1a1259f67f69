// Package app contains the Cobra command tree for usermanual.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/usermanual/internal/assessment"
	"github.com/blackwell-systems/usermanual/internal/config"
	"github.com/blackwell-systems/usermanual/internal/logging"
	"github.com/blackwell-systems/usermanual/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagLang    string
)

// Loaded once per invocation by the root PersistentPreRunE.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "usermanual",
	Short: "A forced-choice personality assessment that writes your user manual",
	Long: `usermanual runs a 43-question forced-choice assessment in three phases
(discovery, stress testing, solution design), scores it into Big Five
temperament, action modes, core drivers, stress patterns and operational
rules, and renders the result as a report or a long-form narrative.

Start with 'usermanual start'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/usermanual/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Language for questions and reports: en or de (default from config)")
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagLang != "" {
		c.Language = flagLang
	}
	cfg = c

	if err := checkScoring(assessment.StructureCatalog()); err != nil {
		return err
	}

	l, err := logging.New(c.Log.Level, flagVerbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger = l

	if flagNoColor || !c.Output.Color || !output.AutoColor(os.Stdout) {
		output.SetNoColor(true)
	}
	return nil
}

// checkScoring refuses to run when a scoring table names a question the
// catalog does not have.
func checkScoring(c *assessment.Catalog) error {
	if err := assessment.ValidateRules(c); err != nil {
		return fmt.Errorf("scoring tables: %w", err)
	}
	return nil
}
