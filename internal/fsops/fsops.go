// Package fsops defines the filesystem capability the pipeline depends
// on, plus the operating-system binding. Every stage talks to the FS
// interface, never to the os package directly, so tests can inject
// failures and fakes.
package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FS is the capability surface the pipeline uses. The first three
// methods serve scanning and fingerprinting; the rest are the mutations
// the executor and cleanup pass apply.
type FS interface {
	// ListEntries returns the directory entries of dir
	ListEntries(dir string) ([]os.DirEntry, error)

	// Stat returns file info for path, following symlinks
	Stat(path string) (os.FileInfo, error)

	// Open opens path for reading (content hashing)
	Open(path string) (io.ReadCloser, error)

	// Delete removes the file at path
	Delete(path string) error

	// Rename renames a file within its filesystem
	Rename(oldPath, newPath string) error

	// SetPermissions changes the permission bits of path
	SetPermissions(path string, perm os.FileMode) error

	// Move relocates path to dest, creating parent directories and
	// falling back to copy+delete across filesystems
	Move(path, dest string) error

	// RemoveEmptyDir removes dir only if it is empty
	RemoveEmptyDir(dir string) error
}

// OSFS is the real-filesystem binding of FS.
type OSFS struct{}

// NewOSFS returns the operating-system backed filesystem capability.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// ListEntries returns the directory entries of dir
func (*OSFS) ListEntries(dir string) ([]os.DirEntry, error) {
	return os.ReadDir(dir)
}

// Stat returns file info for path
func (*OSFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Open opens path for reading
func (*OSFS) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Delete removes the file at path
func (*OSFS) Delete(path string) error {
	return os.Remove(path)
}

// Rename renames a file within its filesystem
func (*OSFS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// SetPermissions changes the permission bits of path
func (*OSFS) SetPermissions(path string, perm os.FileMode) error {
	return os.Chmod(path, perm)
}

// Move relocates path to dest. A plain rename is attempted first; if
// that fails (typically crossing filesystems), the file is copied and
// the source removed.
func (*OSFS) Move(path, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	if err := os.Rename(path, dest); err == nil {
		return nil
	}

	if err := copyFile(path, dest); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// RemoveEmptyDir removes dir. os.Remove refuses to delete non-empty
// directories, which is exactly the guarantee the cleanup pass needs.
func (*OSFS) RemoveEmptyDir(dir string) error {
	return os.Remove(dir)
}

// copyFile copies src to dst preserving the permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy content: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
