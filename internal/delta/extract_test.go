package delta

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lonelog/internal/parser"
)

func intPtr(i int) *int { return &i }

func TestExtract_PCHPLoss(t *testing.T) {
	result := Extract(parser.Parse("=> [PC:Elara|HP-9]"))

	want := []EntityDelta{{
		Entity:     "Elara",
		EntityType: EntityPC,
		Changes:    []StateChange{{Type: ChangeHP, Delta: -9}},
	}}
	if diff := cmp.Diff(want, result.EntityDeltas); diff != "" {
		t.Fatalf("entity deltas mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, result.ProgressChanges)
	assert.Empty(t, result.ThreadChanges)
}

func TestExtract_PCHPGain(t *testing.T) {
	result := Extract(parser.Parse("=> [PC:Thorne|HP+7]"))
	require.Len(t, result.EntityDeltas, 1)
	assert.Equal(t, 7, TotalHPChange(result.EntityDeltas[0].Changes))
}

func TestExtract_NPCStatus(t *testing.T) {
	result := Extract(parser.Parse("=> [N:Goblin Lookout|dead]"))
	require.Len(t, result.EntityDeltas, 1)
	assert.Equal(t, EntityNPC, result.EntityDeltas[0].EntityType)
	assert.Equal(t, []StateChange{{Type: ChangeStatus, To: "dead"}}, result.EntityDeltas[0].Changes)
}

func TestExtract_NPCTransition(t *testing.T) {
	result := Extract(parser.Parse("=> [N:Guard|alert→unconscious]"))
	require.Len(t, result.EntityDeltas, 1)
	assert.Equal(t, []StateChange{{Type: ChangeStatus, From: strPtr("alert"), To: "unconscious"}}, result.EntityDeltas[0].Changes)
}

func TestExtract_MergesRepeatedEntity(t *testing.T) {
	text := "=> [PC:Elara|HP-2]\n=> [N:Bram|hostile]\n=> [PC:Elara|Stress+1|nonsense|+shaken]"
	result := Extract(parser.Parse(text))

	require.Len(t, result.EntityDeltas, 2)
	assert.Equal(t, "Elara", result.EntityDeltas[0].Entity)
	assert.Equal(t, "Bram", result.EntityDeltas[1].Entity)
	assert.Equal(t, []StateChange{
		{Type: ChangeHP, Delta: -2},
		{Type: ChangeStat, Stat: "Stress", Delta: 1},
		{Type: ChangeTagAdd, Tag: "shaken"},
	}, result.EntityDeltas[0].Changes)
}

func TestExtract_SameNameDifferentType(t *testing.T) {
	result := Extract(parser.Parse("=> [PC:Ash|HP-1] [N:Ash|HP-2]"))
	require.Len(t, result.EntityDeltas, 2)
	assert.Equal(t, EntityPC, result.EntityDeltas[0].EntityType)
	assert.Equal(t, EntityNPC, result.EntityDeltas[1].EntityType)
}

func TestExtract_EntityWithoutParseableChanges(t *testing.T) {
	result := Extract(parser.Parse("=> [#N:Bram]"))
	require.Len(t, result.EntityDeltas, 1)
	assert.Empty(t, result.EntityDeltas[0].Changes)
}

func TestExtract_Progress(t *testing.T) {
	text := "=> [Clock:Alarm 1/4] [Track:Escape 2/8]\n=> [E:Festival 0/3] [Timer:Dawn 2] [Clock:Alarm 2/4] [L:Gate|open]"
	result := Extract(parser.Parse(text))

	want := []ProgressChange{
		{Name: "Alarm", Kind: ProgressClock, Current: 1, Max: intPtr(4)},
		{Name: "Escape", Kind: ProgressTrack, Current: 2, Max: intPtr(8)},
		{Name: "Festival", Kind: ProgressEvent, Current: 0, Max: intPtr(3)},
		{Name: "Dawn", Kind: ProgressTimer, Current: 2},
		{Name: "Alarm", Kind: ProgressClock, Current: 2, Max: intPtr(4)},
	}
	if diff := cmp.Diff(want, result.ProgressChanges); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, result.EntityDeltas)
}

func TestExtract_TimerHasNoMax(t *testing.T) {
	result := Extract(parser.Parse("=> [Timer:Dawn 2]"))
	require.Len(t, result.ProgressChanges, 1)

	data, err := json.Marshal(result.ProgressChanges[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Dawn","kind":"timer","current":2}`, string(data))
}

func TestExtract_Threads(t *testing.T) {
	result := Extract(parser.Parse("=> [Thread:Find the heir] and later [Thread:Find the heir|Closed]"))
	assert.Equal(t, []ThreadChange{
		{Name: "Find the heir", To: "Open"},
		{Name: "Find the heir", To: "Closed"},
	}, result.ThreadChanges)
}

func TestExtract_IgnoresNonConsequenceEntries(t *testing.T) {
	text := "@ [PC:Elara|HP-9]\nThe [N:Guard|dead] sleeps\n(note: [Clock:X 1/2])"
	result := Extract(parser.Parse(text))
	assert.Empty(t, result.EntityDeltas)
	assert.Empty(t, result.ProgressChanges)
	assert.Empty(t, result.ThreadChanges)
}

func TestExtract_EndToEnd(t *testing.T) {
	text := "S1 *Goblin ambush*\n@ Elara attacks Goblin Lookout\nd: d20+7=19 vs AC 15 -> Hit\n=> [N:Goblin Lookout|HP-9|dead]\n=> [PC:Elara|HP+7]"
	result := Extract(parser.Parse(text))

	require.Len(t, result.EntityDeltas, 2)
	goblin := result.EntityDeltas[0]
	assert.Equal(t, "Goblin Lookout", goblin.Entity)
	assert.Equal(t, EntityNPC, goblin.EntityType)
	assert.Equal(t, -9, TotalHPChange(goblin.Changes))
	require.NotNil(t, FinalStatus(goblin.Changes))
	assert.Equal(t, "dead", *FinalStatus(goblin.Changes))

	elara := result.EntityDeltas[1]
	assert.Equal(t, "Elara", elara.Entity)
	assert.Equal(t, EntityPC, elara.EntityType)
	assert.Equal(t, 7, TotalHPChange(elara.Changes))
}

func TestExtract_Empty(t *testing.T) {
	result := Extract(nil)
	assert.Empty(t, result.EntityDeltas)
	assert.NotNil(t, result.ProgressChanges)
	assert.NotNil(t, result.ThreadChanges)
}
