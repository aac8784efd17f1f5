// Package models defines the shared data types that flow through the
// cleanfiles pipeline: scanned file records, proposed and approved
// actions, and the end-of-run report.
package models

import (
	"fmt"
	"os"
	"time"
)

// RootKind identifies which kind of scanned root a file came from.
type RootKind int

const (
	// RootCanonical marks files under the canonical (target) directory
	RootCanonical RootKind = iota
	// RootSource marks files under any other scanned directory
	RootSource
)

// String returns a human-readable root kind name
func (k RootKind) String() string {
	if k == RootCanonical {
		return "canonical"
	}
	return "source"
}

// FileRecord is one regular file discovered by the scanner.
// Records are created once from a stat and never mutated afterwards.
type FileRecord struct {
	// Path is the absolute location of the file
	Path string

	// Root indicates whether the file lives under the canonical root
	Root RootKind

	// Size is the file size in bytes
	Size int64

	// ModTime is the file's last modification time
	ModTime time.Time

	// Perm holds the file's permission bits
	Perm os.FileMode

	// Name is the base filename
	Name string

	// Dir is the containing directory
	Dir string
}

// ActionKind enumerates the classification outcomes.
// The declaration order is the classifier's precedence order, which is
// also the order the decision engine presents actions in.
type ActionKind int

const (
	// KindEmptyFile proposes deleting a zero-byte file
	KindEmptyFile ActionKind = iota
	// KindTempFile proposes deleting a file with a temp suffix
	KindTempFile
	// KindDuplicate proposes deleting a byte-identical copy of a survivor
	KindDuplicate
	// KindVersionConflict proposes deleting an older same-named version
	KindVersionConflict
	// KindMoveOriginal proposes relocating a surviving source file into
	// the canonical directory
	KindMoveOriginal
	// KindRename proposes normalizing a filename containing troublesome
	// characters
	KindRename
	// KindPermissions proposes resetting permission bits to the
	// configured value
	KindPermissions

	numActionKinds
)

// AllActionKinds lists every kind in precedence order.
func AllActionKinds() []ActionKind {
	kinds := make([]ActionKind, 0, numActionKinds)
	for k := ActionKind(0); k < numActionKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the canonical name of the action kind
func (k ActionKind) String() string {
	switch k {
	case KindEmptyFile:
		return "EMPTY_FILE"
	case KindTempFile:
		return "TEMP_FILE"
	case KindDuplicate:
		return "DUPLICATE"
	case KindVersionConflict:
		return "VERSION_CONFLICT"
	case KindMoveOriginal:
		return "MOVE_ORIGINAL"
	case KindRename:
		return "RENAME"
	case KindPermissions:
		return "PERMISSIONS"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Terminal reports whether the kind removes its target. A file carries
// at most one terminal action, and RENAME/PERMISSIONS never stack on
// top of one.
func (k ActionKind) Terminal() bool {
	switch k {
	case KindEmptyFile, KindTempFile, KindDuplicate, KindVersionConflict:
		return true
	}
	return false
}

// ProposedAction is a single classification outcome for one file.
// It is a tagged variant: only the payload fields relevant to Kind are
// set, enforced by the constructors below.
type ProposedAction struct {
	// Kind tags which payload fields are meaningful
	Kind ActionKind

	// Target is the file the action operates on
	Target FileRecord

	// Survivor is the file kept in place of the target
	// (DUPLICATE and VERSION_CONFLICT only)
	Survivor *FileRecord

	// NewName is the normalized base filename (RENAME only)
	NewName string

	// NewPerm is the permission bits to apply (PERMISSIONS only)
	NewPerm os.FileMode

	// Dest is the absolute destination path (MOVE_ORIGINAL only)
	Dest string
}

// NewEmptyFileAction proposes deleting a zero-byte file.
func NewEmptyFileAction(target FileRecord) ProposedAction {
	return ProposedAction{Kind: KindEmptyFile, Target: target}
}

// NewTempFileAction proposes deleting a temp file.
func NewTempFileAction(target FileRecord) ProposedAction {
	return ProposedAction{Kind: KindTempFile, Target: target}
}

// NewDuplicateAction proposes deleting target as a byte-identical copy
// of survivor.
func NewDuplicateAction(target FileRecord, survivor FileRecord) ProposedAction {
	s := survivor
	return ProposedAction{Kind: KindDuplicate, Target: target, Survivor: &s}
}

// NewVersionConflictAction proposes deleting target as an older version
// of keeper.
func NewVersionConflictAction(target FileRecord, keeper FileRecord) ProposedAction {
	k := keeper
	return ProposedAction{Kind: KindVersionConflict, Target: target, Survivor: &k}
}

// NewMoveAction proposes relocating target to dest under the canonical
// root.
func NewMoveAction(target FileRecord, dest string) ProposedAction {
	return ProposedAction{Kind: KindMoveOriginal, Target: target, Dest: dest}
}

// NewRenameAction proposes renaming target to newName within its
// directory.
func NewRenameAction(target FileRecord, newName string) ProposedAction {
	return ProposedAction{Kind: KindRename, Target: target, NewName: newName}
}

// NewPermissionsAction proposes setting target's permission bits to
// perm.
func NewPermissionsAction(target FileRecord, perm os.FileMode) ProposedAction {
	return ProposedAction{Kind: KindPermissions, Target: target, NewPerm: perm}
}

// Reason returns a one-line human explanation of the proposal, used by
// the prompt and the scan report.
func (a ProposedAction) Reason() string {
	switch a.Kind {
	case KindEmptyFile:
		return "file is empty (size 0)"
	case KindTempFile:
		return "temporary file"
	case KindDuplicate:
		return fmt.Sprintf("identical content, original kept at %s", a.Survivor.Path)
	case KindVersionConflict:
		return fmt.Sprintf("older version, newest kept at %s", a.Survivor.Path)
	case KindMoveOriginal:
		return fmt.Sprintf("original belongs in the canonical directory: %s", a.Dest)
	case KindRename:
		return fmt.Sprintf("name contains troublesome characters, suggested: %s", a.NewName)
	case KindPermissions:
		return fmt.Sprintf("permissions %04o differ from suggested %04o", a.Target.Perm, a.NewPerm)
	default:
		return a.Kind.String()
	}
}

// ApprovedAction is a ProposedAction the decision engine accepted.
// Immutable once created and consumed exactly once by the executor.
type ApprovedAction struct {
	ProposedAction
}

// ActionResult records the outcome of executing one approved action.
type ActionResult struct {
	// Action is the approved action that was attempted
	Action ApprovedAction

	// Err is nil on success, otherwise the reason the action failed
	Err error
}

// RunReport summarizes a complete run for logging and history.
type RunReport struct {
	// Proposed is the total number of classification outcomes
	Proposed int

	// Approved is the number of actions the operator accepted
	Approved int

	// Rejected is the number of actions the operator declined
	Rejected int

	// Executed is the number of actions applied successfully
	Executed int

	// Failed is the number of actions that errored during execution
	Failed int

	// PrunedDirs is the number of empty directories removed afterwards
	PrunedDirs int

	// Failures holds the per-action errors for the summary
	Failures []ActionResult

	// Warnings holds non-fatal scan/hash warnings
	Warnings []string

	// Duration is the wall-clock time of the whole run
	Duration time.Duration
}
