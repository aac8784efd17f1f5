package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbolicPerm(t *testing.T) {
	tests := []struct {
		symbolic string
		want     os.FileMode
	}{
		{"rw-r--r--", 0644},
		{"rwxr-xr-x", 0755},
		{"rw-------", 0600},
		{"---------", 0000},
		{"rwxrwxrwx", 0777},
	}

	for _, tt := range tests {
		t.Run(tt.symbolic, func(t *testing.T) {
			mode, err := ParseSymbolicPerm(tt.symbolic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestParseSymbolicPermInvalid(t *testing.T) {
	invalid := []string{
		"",
		"rw-r--r",     // too short
		"rw-r--r---x", // too long
		"rw-r--r-q",   // unknown letter
		"wr-r--r--",   // letters out of place
	}

	for _, symbolic := range invalid {
		t.Run(symbolic, func(t *testing.T) {
			_, err := ParseSymbolicPerm(symbolic)
			assert.Error(t, err)
		})
	}
}

func TestFormatSymbolicPermRoundTrip(t *testing.T) {
	for _, symbolic := range []string{"rw-r--r--", "rwxr-x---", "r--r--r--", "rwxrwxrwx"} {
		mode, err := ParseSymbolicPerm(symbolic)
		require.NoError(t, err)
		assert.Equal(t, symbolic, FormatSymbolicPerm(mode))
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, os.FileMode(0644), s.SuggestedPerm)
	assert.Equal(t, "_", s.Substitute)
	assert.Equal(t, []string{".tmp", "~", ".bak", ".DS_Store"}, s.TempSuffixes)
	assert.Contains(t, s.TroublesomeChars, ":")
	assert.Contains(t, s.TroublesomeChars, "?")
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadOverridesAndMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clean_files")
	content := "suggested_permissions: rw-------\ntemp_extensions: .swp,.orig\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, os.FileMode(0600), s.SuggestedPerm)
	assert.Equal(t, []string{".swp", ".orig"}, s.TempSuffixes)
	// Keys absent from the file keep their defaults
	assert.Equal(t, "_", s.Substitute)
	assert.Equal(t, DefaultSettings().TroublesomeChars, s.TroublesomeChars)
}

func TestLoadRejectsMalformedSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "suggested_permissions: [\n"},
		{"bad permissions", "suggested_permissions: banana\n"},
		{"multi-char substitute", "char_substitute: ab\n"},
		{"substitute in troublesome set", "troublesome_chars: ':_'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".clean_files")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".clean_files")

	created, err := WriteDefault(path)
	require.NoError(t, err)
	assert.True(t, created)

	// The written file must load back to the defaults
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	// A second call leaves the existing file alone
	created, err = WriteDefault(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestIsTempName(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.IsTempName("draft.tmp"))
	assert.True(t, s.IsTempName("notes.txt~"))
	assert.True(t, s.IsTempName("old.bak"))
	assert.True(t, s.IsTempName(".DS_Store"))
	assert.False(t, s.IsTempName("report.txt"))
	// Matching is case-sensitive
	assert.False(t, s.IsTempName("draft.TMP"))
}
