// Package scanner walks the canonical and source roots and produces
// one FileRecord per regular file. Unreadable subtrees are reported as
// warnings and skipped; symbolic links are never followed.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/harrison/cleanfiles/internal/filelock"
	"github.com/harrison/cleanfiles/internal/fsops"
	"github.com/harrison/cleanfiles/internal/models"
)

// Result contains every record discovered plus the non-fatal warnings
// collected along the way.
type Result struct {
	// Records holds all discovered regular files, sorted by path
	Records []models.FileRecord

	// Warnings describes subtrees or entries that could not be read
	Warnings []string
}

// Scanner walks directory trees through the filesystem capability.
type Scanner struct {
	fs fsops.FS
}

// New creates a Scanner backed by the given filesystem capability.
func New(fs fsops.FS) *Scanner {
	return &Scanner{fs: fs}
}

// Scan walks every root concurrently and returns the combined record
// set. The first root is the canonical directory; all others are
// source directories. Scanning completes fully before the result is
// returned, so fingerprinting always sees the complete set.
func (s *Scanner) Scan(roots []string) (*Result, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no directories to scan")
	}

	result := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, root := range roots {
		kind := models.RootSource
		if i == 0 {
			kind = models.RootCanonical
		}

		wg.Add(1)
		go func(root string, kind models.RootKind) {
			defer wg.Done()

			var records []models.FileRecord
			var warnings []string
			s.walk(root, kind, &records, &warnings)

			mu.Lock()
			result.Records = append(result.Records, records...)
			result.Warnings = append(result.Warnings, warnings...)
			mu.Unlock()
		}(root, kind)
	}
	wg.Wait()

	// Deterministic order regardless of goroutine scheduling
	sort.Slice(result.Records, func(i, j int) bool {
		return result.Records[i].Path < result.Records[j].Path
	})
	sort.Strings(result.Warnings)

	return result, nil
}

// walk recursively collects regular files under dir. Directory read
// failures become warnings; the subtree simply yields no records.
func (s *Scanner) walk(dir string, kind models.RootKind, records *[]models.FileRecord, warnings *[]string) {
	entries, err := s.fs.ListEntries(dir)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("cannot read directory %s: %v", dir, err))
		return
	}

	for _, entry := range entries {
		// The run's own lock file is not part of the tree being cleaned
		if entry.Name() == filelock.LockFileName {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		// Never follow symlinks: a link to a parent directory would
		// cycle, and a linked file is not the file itself.
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		if entry.IsDir() {
			s.walk(path, kind, records, warnings)
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("cannot stat %s: %v", path, err))
			continue
		}

		*records = append(*records, models.FileRecord{
			Path:    path,
			Root:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Perm:    info.Mode().Perm(),
			Name:    entry.Name(),
			Dir:     dir,
		})
	}
}
