// Package classifier turns the scanned record set and the fingerprint
// index into a coherent set of proposed actions. It is a pure pass: it
// reads the shared index, never the filesystem, and never mutates its
// inputs.
//
// Rules apply in precedence order. The first matching terminal rule
// wins (EMPTY_FILE, TEMP_FILE, DUPLICATE, VERSION_CONFLICT); files that
// survive may then stack MOVE_ORIGINAL, RENAME and PERMISSIONS.
package classifier

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/cleanfiles/internal/config"
	"github.com/harrison/cleanfiles/internal/fingerprint"
	"github.com/harrison/cleanfiles/internal/models"
)

// Classify maps every record to zero or more proposed actions.
// canonicalRoot is the directory surviving source files are moved
// into. The returned slice is grouped by kind in precedence order and
// sorted by target path within each kind, which is the order the
// decision engine presents.
func Classify(records []models.FileRecord, idx *fingerprint.Index, settings *config.Settings, canonicalRoot string) []models.ProposedAction {
	byKind := make([][]models.ProposedAction, len(models.AllActionKinds()))
	propose := func(a models.ProposedAction) {
		byKind[a.Kind] = append(byKind[a.Kind], a)
	}

	// condemned tracks files already carrying a terminal action so no
	// later rule touches them.
	condemned := make(map[string]bool)

	sorted := make([]models.FileRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	// Rules 1 and 2: empty and temporary files
	for _, rec := range sorted {
		switch {
		case rec.Size == 0:
			propose(models.NewEmptyFileAction(rec))
			condemned[rec.Path] = true
		case settings.IsTempName(rec.Name):
			propose(models.NewTempFileAction(rec))
			condemned[rec.Path] = true
		}
	}

	// Rule 3: duplicates by content
	seenHashes := make(map[string]bool)
	for _, rec := range sorted {
		digest, ok := idx.Hash(rec.Path)
		if !ok || seenHashes[digest] {
			continue
		}
		seenHashes[digest] = true

		group := idx.HashGroup(rec)
		if len(group) < 2 {
			continue
		}
		survivor := electSurvivor(group)
		for _, member := range group {
			if member.Path == survivor.Path {
				continue
			}
			propose(models.NewDuplicateAction(member, survivor))
			condemned[member.Path] = true
		}
	}

	// Rule 4: version conflicts by name
	seenNames := make(map[string]bool)
	for _, rec := range sorted {
		if seenNames[rec.Name] {
			continue
		}
		seenNames[rec.Name] = true

		group := idx.NameGroup(rec.Name)
		if len(group) < 2 || allIdentical(group, idx) {
			continue
		}

		// Files already condemned as exact duplicates are out of the
		// running; the keeper is chosen among what is left.
		remaining := make([]models.FileRecord, 0, len(group))
		for _, member := range group {
			if !condemned[member.Path] {
				remaining = append(remaining, member)
			}
		}
		if len(remaining) < 2 {
			continue
		}

		keeper := electKeeper(remaining)
		for _, member := range remaining {
			if member.Path == keeper.Path {
				continue
			}
			propose(models.NewVersionConflictAction(member, keeper))
			condemned[member.Path] = true
		}
	}

	// Rules 5-7: relocation, renaming and permissions for survivors.
	// Destination names are allocated here, deterministically, before
	// any execution starts: the allocator treats every scanned file
	// plus every name claimed earlier in this pass as occupied.
	alloc := newAllocator(records)
	for _, rec := range sorted {
		if condemned[rec.Path] {
			continue
		}

		normalized := NormalizeName(rec.Name, settings)
		needsRename := normalized != rec.Name
		currentName := rec.Name

		if needsRename {
			newName := alloc.claim(rec.Dir, normalized)
			propose(models.NewRenameAction(rec, newName))
			currentName = newName
		}

		if rec.Root == models.RootSource {
			destName := alloc.claim(canonicalRoot, currentName)
			propose(models.NewMoveAction(rec, filepath.Join(canonicalRoot, destName)))
		}

		if rec.Perm != settings.SuggestedPerm {
			propose(models.NewPermissionsAction(rec, settings.SuggestedPerm))
		}
	}

	var actions []models.ProposedAction
	for _, kind := range models.AllActionKinds() {
		actions = append(actions, byKind[kind]...)
	}
	return actions
}

// electSurvivor picks the one member of a duplicate group that is
// kept: a canonical-root member first, then the oldest mtime, then the
// lexicographically smallest path.
func electSurvivor(group []models.FileRecord) models.FileRecord {
	candidates := group
	var canonical []models.FileRecord
	for _, rec := range group {
		if rec.Root == models.RootCanonical {
			canonical = append(canonical, rec)
		}
	}
	if len(canonical) > 0 {
		candidates = canonical
	}

	best := candidates[0]
	for _, rec := range candidates[1:] {
		if rec.ModTime.Before(best.ModTime) ||
			(rec.ModTime.Equal(best.ModTime) && rec.Path < best.Path) {
			best = rec
		}
	}
	return best
}

// electKeeper picks the member of a version-conflict group that is
// kept: the newest mtime, ties broken by the smallest path.
func electKeeper(group []models.FileRecord) models.FileRecord {
	best := group[0]
	for _, rec := range group[1:] {
		if rec.ModTime.After(best.ModTime) ||
			(rec.ModTime.Equal(best.ModTime) && rec.Path < best.Path) {
			best = rec
		}
	}
	return best
}

// allIdentical reports whether every member of a name group shares one
// content digest, in which case the group is purely a duplicate case.
func allIdentical(group []models.FileRecord, idx *fingerprint.Index) bool {
	first, ok := idx.Hash(group[0].Path)
	if !ok {
		return false
	}
	for _, rec := range group[1:] {
		h, ok := idx.Hash(rec.Path)
		if !ok || h != first {
			return false
		}
	}
	return true
}

// NormalizeName replaces every troublesome character in the name's
// stem with the substitute character. The extension (from the final
// dot, unless the name starts with it) is left untouched so the file
// type stays recognizable.
func NormalizeName(name string, settings *config.Settings) string {
	stem, ext := splitName(name)
	var b strings.Builder
	for _, r := range stem {
		if strings.ContainsRune(settings.TroublesomeChars, r) {
			b.WriteString(settings.Substitute)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String() + ext
}

// splitName separates a base filename into stem and extension. A
// leading dot is part of the stem, so hidden files like .bashrc have
// no extension.
func splitName(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// allocator hands out collision-free names per directory. Every
// scanned file occupies its name, and every allocation claims its
// result, so two proposals can never resolve to the same final path
// even when the operator later rejects some of them.
type allocator struct {
	occupied map[string]map[string]bool
}

func newAllocator(records []models.FileRecord) *allocator {
	a := &allocator{occupied: make(map[string]map[string]bool)}
	for _, rec := range records {
		a.mark(rec.Dir, rec.Name)
	}
	return a
}

func (a *allocator) mark(dir, name string) {
	if a.occupied[dir] == nil {
		a.occupied[dir] = make(map[string]bool)
	}
	a.occupied[dir][name] = true
}

// claim returns name if it is free in dir, otherwise the first free
// disambiguated variant (stem_1.ext, stem_2.ext, ...), and marks the
// result occupied.
func (a *allocator) claim(dir, name string) string {
	if !a.occupied[dir][name] {
		a.mark(dir, name)
		return name
	}

	stem, ext := splitName(name)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !a.occupied[dir][candidate] {
			a.mark(dir, candidate)
			return candidate
		}
	}
}
