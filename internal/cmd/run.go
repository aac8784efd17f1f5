package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/cleanfiles/internal/classifier"
	"github.com/harrison/cleanfiles/internal/cleanup"
	"github.com/harrison/cleanfiles/internal/config"
	"github.com/harrison/cleanfiles/internal/decision"
	"github.com/harrison/cleanfiles/internal/display"
	"github.com/harrison/cleanfiles/internal/executor"
	"github.com/harrison/cleanfiles/internal/filelock"
	"github.com/harrison/cleanfiles/internal/fingerprint"
	"github.com/harrison/cleanfiles/internal/fsops"
	"github.com/harrison/cleanfiles/internal/history"
	"github.com/harrison/cleanfiles/internal/logger"
	"github.com/harrison/cleanfiles/internal/models"
	"github.com/harrison/cleanfiles/internal/scanner"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <canonical-dir> <source-dir>...",
		Short: "Classify, confirm and apply cleanup actions",
		Long: `Run the full cleanup pipeline: scan the canonical directory and every
source directory, classify each file, confirm the proposals
interactively (once per action type with "all"/"drop all" shortcuts),
apply the approved actions and prune directories left empty.

Settings are read from ~/.clean_files (created with defaults on first
use) unless --config points elsewhere.

Examples:
  # Clean two download folders into ~/documents
  cleanfiles run ~/documents ~/downloads ~/desktop

  # Non-interactive: approve everything
  cleanfiles run --yes ~/documents ~/downloads

  # Show what would be proposed without prompting or changing anything
  cleanfiles run --dry-run ~/documents ~/downloads`,
		Args: cobra.MinimumNArgs(2),
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to settings file (default: ~/.clean_files)")
	cmd.Flags().Bool("yes", false, "Approve every proposal without prompting")
	cmd.Flags().Bool("dry-run", false, "Classify and report without prompting or executing")
	cmd.Flags().String("log-level", "info", "Log verbosity (debug, info, warn, error)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().String("history-db", "", "Path to the history database (default: ~/.cleanfiles/history.db)")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	logLevel, _ := cmd.Flags().GetString("log-level")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	log := logger.NewConsoleLogger(os.Stdout, logLevel)
	useColor := isatty.IsTerminal(os.Stdout.Fd())

	settings, err := loadSettings(cmd, log)
	if err != nil {
		return err
	}

	canonical, sources, err := resolveRoots(args)
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if !interactive && !yes && !dryRun {
		return fmt.Errorf("standard input is not a terminal; use --yes to approve all proposals or --dry-run to only report")
	}

	fs := fsops.NewOSFS()
	startedAt := time.Now()

	if !dryRun {
		lock := filelock.NewFileLock(filepath.Join(canonical, filelock.LockFileName))
		acquired, err := lock.TryLock()
		if err != nil {
			return err
		}
		if !acquired {
			return fmt.Errorf("another cleanfiles run holds %s", lock.Path())
		}
		defer lock.Unlock()
	}

	records, actions, warnings, err := classifyTree(fs, settings, canonical, sources, log)
	if err != nil {
		return err
	}
	log.LogInfo(fmt.Sprintf("scanned %d file(s), proposing %d action(s)", len(records), len(actions)))

	if dryRun {
		display.RenderProposals(os.Stdout, actions, useColor)
		return nil
	}

	var prompter decision.Prompter
	if yes {
		prompter = decision.AutoApprove{}
	} else {
		display.RenderProposals(os.Stdout, actions, useColor)
		prompter = display.NewTerminalPrompter(os.Stdin, os.Stdout, useColor)
	}

	engine := decision.NewEngine(prompter)
	approved, rejectedCount, err := engine.Decide(actions)
	if err != nil {
		return err
	}

	results := executor.New(fs, log).Apply(approved)

	pruned := cleanup.Prune(fs, sources)
	for _, w := range pruned.Warnings {
		log.LogWarn(w)
	}
	for _, dir := range pruned.Pruned {
		log.LogInfo(fmt.Sprintf("removed empty directory %s", dir))
	}

	report := buildReport(actions, approved, rejectedCount, results, pruned, warnings, time.Since(startedAt))
	log.LogSummary(report)

	if !noHistory {
		if err := recordHistory(cmd, canonical, sources, startedAt, report, results); err != nil {
			// History is reporting, not part of the cleanup contract
			log.LogWarn(fmt.Sprintf("could not record run history: %v", err))
		}
	}

	// Partial per-file failures are reported above but are not fatal
	return nil
}

// loadSettings resolves the settings file path, writes the defaults on
// first use, and loads it.
func loadSettings(cmd *cobra.Command, log *logger.ConsoleLogger) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
		created, err := config.WriteDefault(path)
		if err != nil {
			log.LogWarn(fmt.Sprintf("could not write default settings: %v", err))
		} else if created {
			log.LogWarn(fmt.Sprintf("no settings file found; created %s with defaults", path))
		}
	}
	return config.Load(path)
}

// resolveRoots validates the directory arguments and returns the
// canonical root plus the source roots as absolute paths.
func resolveRoots(args []string) (string, []string, error) {
	roots := make([]string, 0, len(args))
	readable := 0
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", nil, fmt.Errorf("resolve %s: %w", arg, err)
		}

		info, err := os.Stat(abs)
		switch {
		case err != nil || !info.IsDir():
			if i == 0 {
				return "", nil, fmt.Errorf("canonical directory %s does not exist or is not a directory", abs)
			}
		default:
			readable++
		}
		roots = append(roots, abs)
	}

	if readable == 0 {
		return "", nil, fmt.Errorf("none of the given directories are readable")
	}
	return roots[0], roots[1:], nil
}

// classifyTree runs the read-only half of the pipeline: scan,
// fingerprint, classify.
func classifyTree(fs fsops.FS, settings *config.Settings, canonical string, sources []string, log *logger.ConsoleLogger) ([]models.FileRecord, []models.ProposedAction, []string, error) {
	scan, err := scanner.New(fs).Scan(append([]string{canonical}, sources...))
	if err != nil {
		return nil, nil, nil, err
	}
	for _, w := range scan.Warnings {
		log.LogWarn(w)
	}

	idx, hashWarnings := fingerprint.NewBuilder(fs).Build(scan.Records, settings)
	for _, w := range hashWarnings {
		log.LogWarn(w)
	}

	actions := classifier.Classify(scan.Records, idx, settings, canonical)

	warnings := append(append([]string{}, scan.Warnings...), hashWarnings...)
	return scan.Records, actions, warnings, nil
}

// buildReport assembles the end-of-run summary.
func buildReport(actions []models.ProposedAction, approved []models.ApprovedAction, rejected int, results []models.ActionResult, pruned *cleanup.Result, warnings []string, duration time.Duration) models.RunReport {
	report := models.RunReport{
		Proposed:   len(actions),
		Approved:   len(approved),
		Rejected:   rejected,
		PrunedDirs: len(pruned.Pruned),
		Warnings:   warnings,
		Duration:   duration,
	}
	for _, result := range results {
		if result.Err != nil {
			report.Failed++
			report.Failures = append(report.Failures, result)
		} else {
			report.Executed++
		}
	}
	return report
}

// recordHistory persists the run outcome to the history database.
func recordHistory(cmd *cobra.Command, canonical string, sources []string, startedAt time.Time, report models.RunReport, results []models.ActionResult) error {
	dbPath, _ := cmd.Flags().GetString("history-db")
	if dbPath == "" {
		var err error
		dbPath, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(canonical, sources, startedAt, report, results)
	return err
}
