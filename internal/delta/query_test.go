package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalHPChange(t *testing.T) {
	assert.Equal(t, 0, TotalHPChange(nil))
	assert.Equal(t, -4, TotalHPChange([]StateChange{
		{Type: ChangeHP, Delta: -9},
		{Type: ChangeStat, Stat: "Stress", Delta: 3},
		{Type: ChangeHP, Delta: 5},
		{Type: ChangeStatus, To: "wounded"},
	}))
}

func TestFinalStatus(t *testing.T) {
	assert.Nil(t, FinalStatus([]StateChange{{Type: ChangeHP, Delta: -1}}))

	status := FinalStatus([]StateChange{
		{Type: ChangeStatus, To: "alert"},
		{Type: ChangeHP, Delta: -3},
		{Type: ChangeStatus, From: strPtr("alert"), To: "unconscious"},
		{Type: ChangeTagAdd, Tag: "bound"},
	})
	require.NotNil(t, status)
	assert.Equal(t, "unconscious", *status)
}

func TestActiveTags(t *testing.T) {
	active := ActiveTags([]StateChange{
		{Type: ChangeTagAdd, Tag: "wounded"},
		{Type: ChangeTagAdd, Tag: "poisoned"},
		{Type: ChangeTagRemove, Tag: "wounded"},
		{Type: ChangeTagAdd, Tag: "frightened"},
	})
	assert.Equal(t, map[string]struct{}{"poisoned": {}, "frightened": {}}, active)
}

func TestActiveTags_RemovedThenReadded(t *testing.T) {
	active := ActiveTags([]StateChange{
		{Type: ChangeTagRemove, Tag: "hidden"},
		{Type: ChangeTagAdd, Tag: "hidden"},
	})
	assert.Contains(t, active, "hidden")
}

func TestSummarize(t *testing.T) {
	summary := Summarize(EntityDelta{
		Entity:     "Kira",
		EntityType: EntityPC,
		Changes: []StateChange{
			{Type: ChangeHP, Delta: -2},
			{Type: ChangeStat, Stat: "Supply", Delta: -1},
			{Type: ChangeStat, Stat: "Supply", Delta: -1},
			{Type: ChangeTagAdd, Tag: "shaken"},
			{Type: ChangeTagAdd, Tag: "bleeding"},
			{Type: ChangeStatus, To: "wounded"},
		},
	})

	assert.Equal(t, -2, summary.NetHP)
	require.NotNil(t, summary.Status)
	assert.Equal(t, "wounded", *summary.Status)
	assert.Equal(t, []string{"bleeding", "shaken"}, summary.ActiveTags)
	assert.Equal(t, map[string]int{"Supply": -2}, summary.Stats)
	assert.Equal(t, 6, summary.Changes)
}
