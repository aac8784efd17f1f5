// Package decision implements the interactive batch-confirmation
// protocol: each proposed action is approved or rejected, and a
// "to all" answer fixes the decision for every remaining action of the
// same kind so the operator is never asked about that kind again.
package decision

import (
	"fmt"
	"sort"

	"github.com/harrison/cleanfiles/internal/models"
)

// Response is one of the four answers the operator can give for a
// single proposed action.
type Response int

const (
	// ResponseYes approves this action only
	ResponseYes Response = iota
	// ResponseNo rejects this action only
	ResponseNo
	// ResponseYesAll approves this action and every later action of
	// the same kind
	ResponseYesAll
	// ResponseNoAll rejects this action and every later action of the
	// same kind
	ResponseNoAll
)

// State is the per-kind decision memory for one run.
type State int

const (
	// StateUnset means actions of this kind still prompt
	StateUnset State = iota
	// StateAlwaysYes auto-approves without prompting
	StateAlwaysYes
	// StateAlwaysNo auto-rejects without prompting
	StateAlwaysNo
)

// Prompter presents a single proposed action to the operator and
// returns the answer. Implementations live outside the engine
// (terminal prompting in internal/display, scripted prompters in
// tests).
type Prompter interface {
	Confirm(action models.ProposedAction) (Response, error)
}

// AutoApprove is a Prompter that answers yes to everything, used for
// --yes runs.
type AutoApprove struct{}

// Confirm approves every action.
func (AutoApprove) Confirm(models.ProposedAction) (Response, error) {
	return ResponseYes, nil
}

// Engine walks the proposal list sequentially and converts approvals
// into ApprovedActions. It owns the only mutable state of the run, the
// per-kind decision map, and is deliberately not safe for concurrent
// use: "to all" semantics require a fixed processing order.
type Engine struct {
	prompter Prompter
	states   map[models.ActionKind]State
}

// NewEngine creates an Engine that consults the given prompter for
// every action whose kind is still undecided.
func NewEngine(prompter Prompter) *Engine {
	return &Engine{
		prompter: prompter,
		states:   make(map[models.ActionKind]State),
	}
}

// State returns the current decision state for a kind.
func (e *Engine) State(kind models.ActionKind) State {
	return e.states[kind]
}

// Decide processes the proposals grouped by kind in precedence order
// and returns the approved actions in that same order, plus the count
// of rejected proposals.
func (e *Engine) Decide(actions []models.ProposedAction) ([]models.ApprovedAction, int, error) {
	ordered := make([]models.ProposedAction, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind < ordered[j].Kind
	})

	var approved []models.ApprovedAction
	rejected := 0

	for _, action := range ordered {
		ok, err := e.resolve(action)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			approved = append(approved, models.ApprovedAction{ProposedAction: action})
		} else {
			rejected++
		}
	}
	return approved, rejected, nil
}

// resolve answers a single proposal, consulting the per-kind state
// before prompting and updating it on "to all" answers.
func (e *Engine) resolve(action models.ProposedAction) (bool, error) {
	switch e.states[action.Kind] {
	case StateAlwaysYes:
		return true, nil
	case StateAlwaysNo:
		return false, nil
	}

	resp, err := e.prompter.Confirm(action)
	if err != nil {
		return false, fmt.Errorf("confirm %s for %s: %w", action.Kind, action.Target.Path, err)
	}

	switch resp {
	case ResponseYes:
		return true, nil
	case ResponseNo:
		return false, nil
	case ResponseYesAll:
		e.states[action.Kind] = StateAlwaysYes
		return true, nil
	case ResponseNoAll:
		e.states[action.Kind] = StateAlwaysNo
		return false, nil
	default:
		return false, fmt.Errorf("unknown prompt response %d", resp)
	}
}
