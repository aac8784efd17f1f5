// Package display renders proposals, prompts and warnings for the
// operator. All interactive I/O of the run lives here; the decision
// engine only sees the Prompter interface.
package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/cleanfiles/internal/decision"
	"github.com/harrison/cleanfiles/internal/models"
)

// kindColor maps each action kind to the color its tag is printed in.
func kindColor(kind models.ActionKind) *color.Color {
	switch kind {
	case models.KindEmptyFile, models.KindTempFile:
		return color.New(color.FgYellow)
	case models.KindDuplicate, models.KindVersionConflict:
		return color.New(color.FgRed)
	case models.KindMoveOriginal:
		return color.New(color.FgCyan)
	case models.KindRename:
		return color.New(color.FgMagenta)
	case models.KindPermissions:
		return color.New(color.FgBlue)
	default:
		return color.New(color.Reset)
	}
}

// RenderProposals writes the classification report grouped by kind.
// Used by the scan command and --dry-run.
func RenderProposals(out io.Writer, actions []models.ProposedAction, useColor bool) {
	if len(actions) == 0 {
		fmt.Fprintln(out, "Nothing to do: all files are in order.")
		return
	}

	fmt.Fprintf(out, "%d proposed action(s):\n", len(actions))

	var lastKind models.ActionKind = -1
	for _, action := range actions {
		if action.Kind != lastKind {
			header := fmt.Sprintf("\n--- %s ---", action.Kind)
			if useColor {
				header = kindColor(action.Kind).Sprint(header)
			}
			fmt.Fprintln(out, header)
			lastKind = action.Kind
		}
		fmt.Fprintf(out, "  %s\n      %s\n", action.Target.Path, action.Reason())
	}
}

// Warning is a user-facing warning block, shown in yellow on
// terminals.
type Warning struct {
	// Title is the main warning line
	Title string

	// Details lists the affected paths or follow-up lines
	Details []string
}

// Display writes the formatted warning.
func (w Warning) Display(out io.Writer, useColor bool) {
	var b strings.Builder
	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")
	for _, d := range w.Details {
		b.WriteString("    ")
		b.WriteString(d)
		b.WriteString("\n")
	}

	if useColor {
		fmt.Fprint(out, color.New(color.FgYellow).Sprint(b.String()))
		return
	}
	fmt.Fprint(out, b.String())
}

// TerminalPrompter asks the operator about one proposal at a time on
// an interactive terminal.
type TerminalPrompter struct {
	in       *bufio.Reader
	out      io.Writer
	useColor bool
}

// NewTerminalPrompter creates a prompter reading answers from in and
// writing prompts to out.
func NewTerminalPrompter(in io.Reader, out io.Writer, useColor bool) *TerminalPrompter {
	return &TerminalPrompter{
		in:       bufio.NewReader(in),
		out:      out,
		useColor: useColor,
	}
}

// Confirm presents a proposal and reads one of the four answers:
// y (this one), n (skip this one), a (this and all of this kind),
// d (drop this and all of this kind). EOF counts as a plain no, so a
// closed stdin cannot approve anything.
func (p *TerminalPrompter) Confirm(action models.ProposedAction) (decision.Response, error) {
	tag := action.Kind.String()
	if p.useColor {
		tag = kindColor(action.Kind).Sprint(tag)
	}

	fmt.Fprintf(p.out, "\n[%s] %s\n", tag, action.Target.Path)
	fmt.Fprintf(p.out, "    %s\n", action.Reason())

	for {
		fmt.Fprintf(p.out, "Apply? [y]es / [n]o / [a]ll of this type / [d]rop all of this type: ")

		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			// Closed input: refuse this and keep going
			fmt.Fprintln(p.out)
			return decision.ResponseNo, nil
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return decision.ResponseYes, nil
		case "n", "no":
			return decision.ResponseNo, nil
		case "a", "all":
			return decision.ResponseYesAll, nil
		case "d", "drop", "none":
			return decision.ResponseNoAll, nil
		default:
			fmt.Fprintln(p.out, "Unknown option. Use y, n, a or d.")
		}
	}
}
