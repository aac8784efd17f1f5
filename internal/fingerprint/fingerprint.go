// Package fingerprint builds the content and name indices the
// classifier needs: files grouped by sha256 digest (duplicate
// candidates) and by base name (version-conflict candidates).
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/harrison/cleanfiles/internal/config"
	"github.com/harrison/cleanfiles/internal/fsops"
	"github.com/harrison/cleanfiles/internal/models"
)

// hashChunkSize is the read buffer used when streaming file content
// through the digest.
const hashChunkSize = 32 * 1024

// Index is the read-only view the classifier consumes. It is built
// once per run from the complete record set and never mutated
// afterwards.
type Index struct {
	byHash map[string][]models.FileRecord
	byName map[string][]models.FileRecord
	hashes map[string]string
}

// HashGroup returns every record sharing rec's content digest,
// including rec itself. Records without a digest (empty, temp, or
// unreadable files) have no group.
func (idx *Index) HashGroup(rec models.FileRecord) []models.FileRecord {
	h, ok := idx.hashes[rec.Path]
	if !ok {
		return nil
	}
	return idx.byHash[h]
}

// NameGroup returns every indexed record sharing the given base name.
func (idx *Index) NameGroup(name string) []models.FileRecord {
	return idx.byName[name]
}

// Hash returns the content digest recorded for path, if any.
func (idx *Index) Hash(path string) (string, bool) {
	h, ok := idx.hashes[path]
	return h, ok
}

// Builder computes the index, reading file content through the
// filesystem capability.
type Builder struct {
	fs fsops.FS
}

// NewBuilder creates a Builder backed by the given filesystem
// capability.
func NewBuilder(fs fsops.FS) *Builder {
	return &Builder{fs: fs}
}

// Build indexes the complete record set in one pass. Hashing is lazy:
// files the classifier will already delete as empty or temporary are
// never read. A file whose content cannot be read is warned about and
// left out of both groupings, so it is treated as unique downstream.
func (b *Builder) Build(records []models.FileRecord, settings *config.Settings) (*Index, []string) {
	idx := &Index{
		byHash: make(map[string][]models.FileRecord),
		byName: make(map[string][]models.FileRecord),
		hashes: make(map[string]string),
	}
	var warnings []string

	for _, rec := range records {
		if rec.Size == 0 || settings.IsTempName(rec.Name) {
			continue
		}

		digest, err := b.hashFile(rec.Path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("cannot hash %s: %v", rec.Path, err))
			continue
		}

		idx.hashes[rec.Path] = digest
		idx.byHash[digest] = append(idx.byHash[digest], rec)
		idx.byName[rec.Name] = append(idx.byName[rec.Name], rec)
	}

	return idx, warnings
}

// hashFile streams the file content through sha256 and returns the hex
// digest.
func (b *Builder) hashFile(path string) (string, error) {
	f, err := b.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
