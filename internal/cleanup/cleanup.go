// Package cleanup removes directories left empty after execution.
// It walks each source root bottom-up; the canonical root is never a
// candidate and is not passed in.
package cleanup

import (
	"fmt"
	"path/filepath"

	"github.com/harrison/cleanfiles/internal/fsops"
)

// Result reports what the pruning pass removed and what it could not
// inspect.
type Result struct {
	// Pruned lists the directories that were removed, parents after
	// children
	Pruned []string

	// Warnings lists directories that could not be read or removed
	Warnings []string
}

// Prune removes every directory under the given source roots that
// contains no files and no non-empty subdirectories. A source root
// that itself ends up empty is removed as well.
func Prune(fs fsops.FS, sourceRoots []string) *Result {
	result := &Result{}
	for _, root := range sourceRoots {
		if pruneDir(fs, root, result) {
			removeDir(fs, root, result)
		}
	}
	return result
}

// pruneDir empties dir of empty subdirectories, bottom-up, and reports
// whether dir itself is now empty. Anything that is not a prunable
// directory (a file, a symlink, an unreadable subtree) keeps its
// parent alive.
func pruneDir(fs fsops.FS, dir string, result *Result) bool {
	entries, err := fs.ListEntries(dir)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("cannot read directory %s: %v", dir, err))
		return false
	}

	empty := true
	for _, entry := range entries {
		if !entry.IsDir() {
			empty = false
			continue
		}

		sub := filepath.Join(dir, entry.Name())
		if pruneDir(fs, sub, result) {
			if !removeDir(fs, sub, result) {
				empty = false
			}
		} else {
			empty = false
		}
	}
	return empty
}

// removeDir removes a directory known to be empty, downgrading failure
// to a warning.
func removeDir(fs fsops.FS, dir string, result *Result) bool {
	if err := fs.RemoveEmptyDir(dir); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("cannot remove directory %s: %v", dir, err))
		return false
	}
	result.Pruned = append(result.Pruned, dir)
	return true
}
