package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/cleanfiles/internal/decision"
	"github.com/harrison/cleanfiles/internal/models"
)

func rec(path string) models.FileRecord {
	return models.FileRecord{Path: path, Name: path}
}

func TestRenderProposalsGroupsByKind(t *testing.T) {
	actions := []models.ProposedAction{
		models.NewEmptyFileAction(rec("/y/empty.txt")),
		models.NewEmptyFileAction(rec("/y/also-empty.txt")),
		models.NewRenameAction(rec("/x/odd:name.txt"), "odd_name.txt"),
	}

	var out bytes.Buffer
	RenderProposals(&out, actions, false)
	text := out.String()

	assert.Contains(t, text, "3 proposed action(s):")
	assert.Contains(t, text, "/y/empty.txt")
	assert.Contains(t, text, "suggested: odd_name.txt")

	// One header per kind, not per action
	assert.Equal(t, 1, strings.Count(text, "--- EMPTY_FILE ---"))
	assert.Equal(t, 1, strings.Count(text, "--- RENAME ---"))
}

func TestRenderProposalsEmpty(t *testing.T) {
	var out bytes.Buffer
	RenderProposals(&out, nil, false)
	assert.Contains(t, out.String(), "Nothing to do")
}

func TestTerminalPrompterAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  decision.Response
	}{
		{"y\n", decision.ResponseYes},
		{"yes\n", decision.ResponseYes},
		{"  Y  \n", decision.ResponseYes},
		{"n\n", decision.ResponseNo},
		{"no\n", decision.ResponseNo},
		{"a\n", decision.ResponseYesAll},
		{"all\n", decision.ResponseYesAll},
		{"d\n", decision.ResponseNoAll},
		{"drop\n", decision.ResponseNoAll},
		{"none\n", decision.ResponseNoAll},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := NewTerminalPrompter(strings.NewReader(tt.input), &bytes.Buffer{}, false)
			resp, err := p.Confirm(models.NewEmptyFileAction(rec("/y/empty.txt")))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestTerminalPrompterRetriesOnGarbage(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminalPrompter(strings.NewReader("banana\ny\n"), &out, false)

	resp, err := p.Confirm(models.NewEmptyFileAction(rec("/y/empty.txt")))
	require.NoError(t, err)
	assert.Equal(t, decision.ResponseYes, resp)
	assert.Contains(t, out.String(), "Unknown option")
}

func TestTerminalPrompterTreatsEOFAsNo(t *testing.T) {
	p := NewTerminalPrompter(strings.NewReader(""), &bytes.Buffer{}, false)

	resp, err := p.Confirm(models.NewEmptyFileAction(rec("/y/empty.txt")))
	require.NoError(t, err)
	assert.Equal(t, decision.ResponseNo, resp)
}

func TestWarningDisplay(t *testing.T) {
	var out bytes.Buffer
	Warning{
		Title:   "2 path(s) could not be read",
		Details: []string{"/y/locked", "/y/gone"},
	}.Display(&out, false)

	text := out.String()
	assert.Contains(t, text, "Warning: 2 path(s) could not be read")
	assert.Contains(t, text, "    /y/locked\n")
	assert.Contains(t, text, "    /y/gone\n")
}
