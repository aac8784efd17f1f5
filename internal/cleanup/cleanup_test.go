package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/cleanfiles/internal/fsops"
)

func TestPruneRemovesNestedEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "d"), 0755))

	result := Prune(fsops.NewOSFS(), []string{root})

	assert.Empty(t, result.Warnings)
	// Children are pruned before parents, and the empty root goes too
	assert.Contains(t, result.Pruned, filepath.Join(root, "a", "b", "c"))
	assert.Contains(t, result.Pruned, filepath.Join(root, "a", "b"))
	assert.Contains(t, result.Pruned, filepath.Join(root, "a"))
	assert.Contains(t, result.Pruned, filepath.Join(root, "d"))
	assert.Contains(t, result.Pruned, root)
	assert.NoDirExists(t, root)
}

func TestPruneKeepsDirectoriesHoldingFiles(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep")
	require.NoError(t, os.MkdirAll(filepath.Join(keep, "empty-child"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(keep, "file.txt"), []byte("x"), 0644))

	result := Prune(fsops.NewOSFS(), []string{root})

	// The empty child goes, but the file keeps its dir and the root alive
	assert.Equal(t, []string{filepath.Join(keep, "empty-child")}, result.Pruned)
	assert.DirExists(t, keep)
	assert.DirExists(t, root)
	assert.FileExists(t, filepath.Join(keep, "file.txt"))
}

func TestPruneOrdersChildrenBeforeParents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "x", "y"), 0755))

	result := Prune(fsops.NewOSFS(), []string{root})

	index := make(map[string]int)
	for i, dir := range result.Pruned {
		index[dir] = i
	}
	assert.Less(t, index[filepath.Join(root, "x", "y")], index[filepath.Join(root, "x")])
	assert.Less(t, index[filepath.Join(root, "x")], index[root])
}

func TestPruneWarnsOnMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	result := Prune(fsops.NewOSFS(), []string{missing})

	assert.Empty(t, result.Pruned)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], missing)
}

func TestPruneHandlesMultipleRoots(t *testing.T) {
	emptyRoot := t.TempDir()
	busyRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(busyRoot, "file.txt"), []byte("x"), 0644))

	result := Prune(fsops.NewOSFS(), []string{emptyRoot, busyRoot})

	assert.Equal(t, []string{emptyRoot}, result.Pruned)
	assert.DirExists(t, busyRoot)
}
