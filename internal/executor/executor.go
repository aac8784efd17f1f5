// Package executor applies approved actions against the filesystem
// capability. The ordering over kinds is a fixed contract, not an
// accident of iteration: all deletions run first, then renames, then
// permission fixes, then moves, so a relocated file always carries its
// final name and bits.
package executor

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/harrison/cleanfiles/internal/fsops"
	"github.com/harrison/cleanfiles/internal/models"
)

// deleteWorkers bounds the concurrency of the deletion phase.
// Deletions touch disjoint paths, every later phase is serialized.
const deleteWorkers = 4

// Logger is the minimal logging surface the executor needs. The
// console logger in internal/logger satisfies it.
type Logger interface {
	LogInfo(message string)
	LogError(message string)
}

// Executor applies approved actions one phase at a time. A failed
// action is logged and recorded, never fatal, and never rolled back.
type Executor struct {
	fs  fsops.FS
	log Logger
}

// New creates an Executor over the given filesystem capability.
func New(fs fsops.FS, log Logger) *Executor {
	return &Executor{fs: fs, log: log}
}

// Apply executes every approved action and returns one result per
// action, in execution order. Renames update the working path of a
// file so later chmod and move phases address it by its current name.
func (e *Executor) Apply(approved []models.ApprovedAction) []models.ActionResult {
	var deletions, renames, perms, moves []models.ApprovedAction
	for _, action := range approved {
		switch {
		case action.Kind.Terminal():
			deletions = append(deletions, action)
		case action.Kind == models.KindRename:
			renames = append(renames, action)
		case action.Kind == models.KindPermissions:
			perms = append(perms, action)
		case action.Kind == models.KindMoveOriginal:
			moves = append(moves, action)
		}
	}

	results := e.applyDeletions(deletions)

	// currentPath tracks where each file lives after renames so the
	// chmod and move phases follow it.
	currentPath := make(map[string]string)
	locate := func(rec models.FileRecord) string {
		if p, ok := currentPath[rec.Path]; ok {
			return p
		}
		return rec.Path
	}

	for _, action := range renames {
		dest := filepath.Join(action.Target.Dir, action.NewName)
		err := e.relocate(locate(action.Target), dest)
		if err == nil {
			currentPath[action.Target.Path] = dest
		}
		results = append(results, e.record(action, err))
	}

	for _, action := range perms {
		err := e.fs.SetPermissions(locate(action.Target), action.NewPerm)
		results = append(results, e.record(action, err))
	}

	for _, action := range moves {
		src := locate(action.Target)
		// The allocated destination already reflects any approved
		// rename; if the rename was rejected the move itself applies
		// the normalized name.
		err := e.move(src, action.Dest)
		if err == nil {
			currentPath[action.Target.Path] = action.Dest
		}
		results = append(results, e.record(action, err))
	}

	return results
}

// applyDeletions removes the condemned files on a small worker pool.
// Every deletion targets a distinct path, so no coordination beyond
// the result slots is needed.
func (e *Executor) applyDeletions(deletions []models.ApprovedAction) []models.ActionResult {
	results := make([]models.ActionResult, len(deletions))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := deleteWorkers
	if len(deletions) < workers {
		workers = len(deletions)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				action := deletions[i]
				err := e.fs.Delete(action.Target.Path)
				results[i] = e.record(action, err)
			}
		}()
	}
	for i := range deletions {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// relocate renames src to dest after verifying dest is still free.
// Allocation happens before execution, but the filesystem may have
// changed underneath the run.
func (e *Executor) relocate(src, dest string) error {
	if _, err := e.fs.Stat(dest); err == nil {
		return fmt.Errorf("destination %s already exists", dest)
	}
	return e.fs.Rename(src, dest)
}

// move relocates src to dest across directories, with the same
// occupied-destination guard as relocate.
func (e *Executor) move(src, dest string) error {
	if _, err := e.fs.Stat(dest); err == nil {
		return fmt.Errorf("destination %s already exists", dest)
	}
	return e.fs.Move(src, dest)
}

// record logs the outcome of one action and wraps it as a result.
func (e *Executor) record(action models.ApprovedAction, err error) models.ActionResult {
	if err != nil {
		if e.log != nil {
			e.log.LogError(fmt.Sprintf("%s failed for %s: %v", action.Kind, action.Target.Path, err))
		}
		return models.ActionResult{Action: action, Err: fmt.Errorf("%s %s: %w", action.Kind, action.Target.Path, err)}
	}

	if e.log != nil {
		switch action.Kind {
		case models.KindRename:
			e.log.LogInfo(fmt.Sprintf("renamed %s -> %s", action.Target.Path, action.NewName))
		case models.KindMoveOriginal:
			e.log.LogInfo(fmt.Sprintf("moved %s -> %s", action.Target.Path, action.Dest))
		case models.KindPermissions:
			e.log.LogInfo(fmt.Sprintf("set permissions %04o on %s", action.NewPerm, action.Target.Path))
		default:
			e.log.LogInfo(fmt.Sprintf("deleted %s (%s)", action.Target.Path, action.Kind))
		}
	}
	return models.ActionResult{Action: action}
}
