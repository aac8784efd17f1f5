package decision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/cleanfiles/internal/models"
)

// scriptedPrompter replays a fixed sequence of responses and records
// every action it was asked about.
type scriptedPrompter struct {
	responses []Response
	asked     []models.ProposedAction
	err       error
}

func (p *scriptedPrompter) Confirm(action models.ProposedAction) (Response, error) {
	p.asked = append(p.asked, action)
	if p.err != nil {
		return 0, p.err
	}
	if len(p.responses) == 0 {
		return ResponseNo, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func rec(path string) models.FileRecord {
	return models.FileRecord{Path: path, Name: path, Dir: "/"}
}

func TestDecideYesAndNo(t *testing.T) {
	actions := []models.ProposedAction{
		models.NewEmptyFileAction(rec("a")),
		models.NewEmptyFileAction(rec("b")),
		models.NewEmptyFileAction(rec("c")),
	}
	prompter := &scriptedPrompter{responses: []Response{ResponseYes, ResponseNo, ResponseYes}}

	approved, rejected, err := NewEngine(prompter).Decide(actions)
	require.NoError(t, err)

	assert.Equal(t, 1, rejected)
	require.Len(t, approved, 2)
	assert.Equal(t, "a", approved[0].Target.Path)
	assert.Equal(t, "c", approved[1].Target.Path)
	assert.Len(t, prompter.asked, 3)
}

func TestYesAllStopsPromptingForKind(t *testing.T) {
	actions := []models.ProposedAction{
		models.NewEmptyFileAction(rec("a")),
		models.NewEmptyFileAction(rec("b")),
		models.NewEmptyFileAction(rec("c")),
		models.NewTempFileAction(rec("d")),
	}
	// "all" on the first empty file approves b and c without asking;
	// the temp file is a different kind and still prompts.
	prompter := &scriptedPrompter{responses: []Response{ResponseYesAll, ResponseYes}}

	engine := NewEngine(prompter)
	approved, rejected, err := engine.Decide(actions)
	require.NoError(t, err)

	assert.Equal(t, 0, rejected)
	assert.Len(t, approved, 4)
	require.Len(t, prompter.asked, 2)
	assert.Equal(t, models.KindEmptyFile, prompter.asked[0].Kind)
	assert.Equal(t, models.KindTempFile, prompter.asked[1].Kind)
	assert.Equal(t, StateAlwaysYes, engine.State(models.KindEmptyFile))
	assert.Equal(t, StateUnset, engine.State(models.KindTempFile))
}

func TestNoAllRejectsRestOfKind(t *testing.T) {
	actions := []models.ProposedAction{
		models.NewDuplicateAction(rec("a"), rec("orig")),
		models.NewDuplicateAction(rec("b"), rec("orig")),
		models.NewRenameAction(rec("c"), "c_fixed"),
	}
	prompter := &scriptedPrompter{responses: []Response{ResponseNoAll, ResponseYes}}

	engine := NewEngine(prompter)
	approved, rejected, err := engine.Decide(actions)
	require.NoError(t, err)

	assert.Equal(t, 2, rejected)
	require.Len(t, approved, 1)
	assert.Equal(t, models.KindRename, approved[0].Kind)
	assert.Len(t, prompter.asked, 2)
	assert.Equal(t, StateAlwaysNo, engine.State(models.KindDuplicate))
}

func TestDecidePresentsKindsInPrecedenceOrder(t *testing.T) {
	// Input deliberately shuffled; the engine must regroup by kind.
	actions := []models.ProposedAction{
		models.NewPermissionsAction(rec("p"), 0644),
		models.NewEmptyFileAction(rec("e")),
		models.NewMoveAction(rec("m"), "/canonical/m"),
		models.NewTempFileAction(rec("t")),
	}
	prompter := &scriptedPrompter{responses: []Response{ResponseYes, ResponseYes, ResponseYes, ResponseYes}}

	approved, _, err := NewEngine(prompter).Decide(actions)
	require.NoError(t, err)

	var kinds []models.ActionKind
	for _, a := range prompter.asked {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []models.ActionKind{
		models.KindEmptyFile, models.KindTempFile, models.KindMoveOriginal, models.KindPermissions,
	}, kinds)

	// Approvals come back in the same grouped order
	require.Len(t, approved, 4)
	assert.Equal(t, models.KindEmptyFile, approved[0].Kind)
	assert.Equal(t, models.KindPermissions, approved[3].Kind)
}

func TestAutoApprove(t *testing.T) {
	actions := []models.ProposedAction{
		models.NewEmptyFileAction(rec("a")),
		models.NewRenameAction(rec("b"), "b_fixed"),
	}

	approved, rejected, err := NewEngine(AutoApprove{}).Decide(actions)
	require.NoError(t, err)
	assert.Equal(t, 0, rejected)
	assert.Len(t, approved, 2)
}

func TestPrompterErrorAborts(t *testing.T) {
	boom := errors.New("stdin closed")
	prompter := &scriptedPrompter{err: boom}

	_, _, err := NewEngine(prompter).Decide([]models.ProposedAction{
		models.NewEmptyFileAction(rec("a")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
