package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/cleanfiles/internal/display"
	"github.com/harrison/cleanfiles/internal/fsops"
	"github.com/harrison/cleanfiles/internal/logger"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <canonical-dir> <source-dir>...",
		Short: "Classify and report without changing anything",
		Long: `Scan the given directories and print every action the run command
would propose. Nothing is prompted, executed or locked.

Examples:
  cleanfiles scan ~/documents ~/downloads`,
		Args: cobra.MinimumNArgs(2),
		RunE: scanCommand,
	}

	cmd.Flags().String("config", "", "Path to settings file (default: ~/.clean_files)")
	cmd.Flags().String("log-level", "warn", "Log verbosity (debug, info, warn, error)")

	return cmd
}

// scanCommand implements the scan command logic
func scanCommand(cmd *cobra.Command, args []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	log := logger.NewConsoleLogger(os.Stderr, logLevel)
	useColor := isatty.IsTerminal(os.Stdout.Fd())

	settings, err := loadSettings(cmd, log)
	if err != nil {
		return err
	}

	canonical, sources, err := resolveRoots(args)
	if err != nil {
		return err
	}

	fs := fsops.NewOSFS()
	records, actions, warnings, err := classifyTree(fs, settings, canonical, sources, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Scanned %d file(s) under %d root(s).\n", len(records), 1+len(sources))
	if len(warnings) > 0 {
		display.Warning{
			Title:   fmt.Sprintf("%d path(s) could not be read", len(warnings)),
			Details: warnings,
		}.Display(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
	}

	display.RenderProposals(os.Stdout, actions, useColor)
	return nil
}
