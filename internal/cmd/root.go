package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for cleanfiles
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanfiles",
		Short: "Interactive file deduplication and cleanup",
		Long: `Cleanfiles classifies the files under a canonical directory and one
or more source directories, proposes corrective actions (deleting
empty, temporary and duplicate files, resolving version conflicts,
normalizing names, fixing permissions, moving originals into the
canonical directory), asks for confirmation per action type, applies
the approved actions and prunes emptied directories.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
