// Package config loads the .clean_files settings file consumed by the
// classification pipeline. The pipeline itself only ever sees the
// parsed Settings value; it never reads files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the settings file looked up in the user's home
// directory when no explicit --config path is given.
const ConfigFileName = ".clean_files"

// Settings holds the parsed, validated configuration for one run.
// Immutable once loaded.
type Settings struct {
	// SuggestedPerm is the permission bits every file should carry
	SuggestedPerm os.FileMode

	// SuggestedPermSymbolic is the original symbolic form, kept for display
	SuggestedPermSymbolic string

	// TroublesomeChars is the literal set of characters not allowed in
	// normalized filenames
	TroublesomeChars string

	// Substitute is the single character that replaces each troublesome one
	Substitute string

	// TempSuffixes lists filename suffixes identifying temporary files,
	// matched case-sensitively
	TempSuffixes []string
}

// yamlSettings mirrors the on-disk representation. All fields are
// strings so defaults can be merged for keys the file omits.
type yamlSettings struct {
	SuggestedPermissions string `yaml:"suggested_permissions"`
	TroublesomeChars     string `yaml:"troublesome_chars"`
	CharSubstitute       string `yaml:"char_substitute"`
	TempExtensions       string `yaml:"temp_extensions"`
}

var defaultYAML = yamlSettings{
	SuggestedPermissions: "rw-r--r--",
	TroublesomeChars:     ":;*?\"$#`|\\.",
	CharSubstitute:       "_",
	TempExtensions:       ".tmp,~,.bak,.DS_Store",
}

// DefaultSettings returns the built-in configuration used when no
// settings file exists.
func DefaultSettings() *Settings {
	s, err := defaultYAML.toSettings()
	if err != nil {
		// The built-in defaults always validate
		panic(err)
	}
	return s
}

// DefaultPath returns the settings file location in the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ConfigFileName), nil
}

// Load reads and validates the settings file at path. A missing file
// yields the defaults without error; a malformed file is a fatal
// configuration error.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from the defaults and overlay keys present in the file
	yamlCfg := defaultYAML
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings, err := yamlCfg.toSettings()
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return settings, nil
}

// WriteDefault writes the built-in defaults to path so the user has a
// file to edit. Returns true if a new file was created, false if one
// already existed.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(defaultYAML)
	if err != nil {
		return false, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write default config %s: %w", path, err)
	}
	return true, nil
}

// toSettings validates the raw values and converts them to the typed
// form the pipeline consumes.
func (y yamlSettings) toSettings() (*Settings, error) {
	perm, err := ParseSymbolicPerm(y.SuggestedPermissions)
	if err != nil {
		return nil, fmt.Errorf("suggested_permissions: %w", err)
	}

	if len([]rune(y.CharSubstitute)) != 1 {
		return nil, fmt.Errorf("char_substitute must be exactly one character, got %q", y.CharSubstitute)
	}
	if strings.Contains(y.TroublesomeChars, y.CharSubstitute) {
		return nil, fmt.Errorf("char_substitute %q is itself listed in troublesome_chars", y.CharSubstitute)
	}

	suffixes := make([]string, 0)
	for _, ext := range strings.Split(y.TempExtensions, ",") {
		ext = strings.TrimSpace(ext)
		if ext != "" {
			suffixes = append(suffixes, ext)
		}
	}

	return &Settings{
		SuggestedPerm:         perm,
		SuggestedPermSymbolic: y.SuggestedPermissions,
		TroublesomeChars:      y.TroublesomeChars,
		Substitute:            y.CharSubstitute,
		TempSuffixes:          suffixes,
	}, nil
}

// IsTempName reports whether name ends with one of the configured
// temporary-file suffixes. Matching is case-sensitive.
func (s *Settings) IsTempName(name string) bool {
	for _, suffix := range s.TempSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// ParseSymbolicPerm converts a 9-character symbolic permission string
// such as "rw-r--r--" to permission bits (0644).
func ParseSymbolicPerm(symbolic string) (os.FileMode, error) {
	if len(symbolic) != 9 {
		return 0, fmt.Errorf("permission string must be exactly 9 characters (e.g. rw-r--r--), got %q", symbolic)
	}

	var mode os.FileMode
	for i, c := range symbolic {
		var bit os.FileMode
		switch c {
		case 'r':
			bit = 4
		case 'w':
			bit = 2
		case 'x':
			bit = 1
		case '-':
			bit = 0
		default:
			return 0, fmt.Errorf("invalid permission character %q at position %d in %q", c, i, symbolic)
		}
		if bit != 0 {
			expected := "rwxrwxrwx"[i]
			if byte(c) != expected {
				return 0, fmt.Errorf("permission character %q out of place at position %d in %q", c, i, symbolic)
			}
		}
		shift := uint(6 - 3*(i/3))
		mode |= bit << shift
	}
	return mode, nil
}

// FormatSymbolicPerm renders permission bits in the 9-character
// symbolic form used by the config file and prompts.
func FormatSymbolicPerm(mode os.FileMode) string {
	const letters = "rwxrwxrwx"
	buf := make([]byte, 9)
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			buf[i] = letters[i]
		} else {
			buf[i] = '-'
		}
	}
	return string(buf)
}
