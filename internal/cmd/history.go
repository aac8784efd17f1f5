package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/cleanfiles/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent cleanup runs",
		Long: `List recent runs recorded in the history database: when they ran,
which directories they covered, and how many actions were proposed,
approved, executed and failed.`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().Int("limit", 10, "Maximum number of runs to show")
	cmd.Flags().String("history-db", "", "Path to the history database (default: ~/.cleanfiles/history.db)")

	return cmd
}

// historyCommand implements the history command logic
func historyCommand(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	dbPath, _ := cmd.Flags().GetString("history-db")
	if dbPath == "" {
		var err error
		dbPath, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tCANONICAL\tSOURCES\tPROPOSED\tAPPROVED\tEXECUTED\tFAILED\tPRUNED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.CanonicalRoot,
			strings.Join(run.SourceRoots, ","),
			run.Proposed, run.Approved, run.Executed, run.Failed, run.PrunedDirs)
	}
	return w.Flush()
}
