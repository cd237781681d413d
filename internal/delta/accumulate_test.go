package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lonelog/internal/parser"
)

func TestAccumulate_MergesAcrossExtractions(t *testing.T) {
	first := Extract(parser.Parse("=> [PC:Elara|HP-3|+wounded]"))
	second := Extract(parser.Parse("=> [PC:Elara|HP+2]\n=> [N:Bram|dead]"))

	deltas := append(append([]EntityDelta{}, first.EntityDeltas...), second.EntityDeltas...)
	merged := Accumulate(deltas)

	require.Len(t, merged, 2)
	elara, ok := merged["pc:Elara"]
	require.True(t, ok)
	assert.Len(t, elara.Changes, len(first.EntityDeltas[0].Changes)+len(second.EntityDeltas[0].Changes))
	assert.Equal(t, []StateChange{
		{Type: ChangeHP, Delta: -3},
		{Type: ChangeTagAdd, Tag: "wounded"},
		{Type: ChangeHP, Delta: 2},
	}, elara.Changes)
	assert.Equal(t, -1, TotalHPChange(elara.Changes))

	_, ok = merged[Key(EntityNPC, "Bram")]
	assert.True(t, ok)
}

func TestAccumulate_KeepsDuplicates(t *testing.T) {
	d := EntityDelta{Entity: "Bram", EntityType: EntityNPC, Changes: []StateChange{{Type: ChangeHP, Delta: -1}}}
	merged := Accumulate([]EntityDelta{d, d})
	assert.Len(t, merged["npc:Bram"].Changes, 2)
}

func TestAccumulate_DoesNotAliasInput(t *testing.T) {
	input := []EntityDelta{{Entity: "A", EntityType: EntityPC, Changes: []StateChange{{Type: ChangeHP, Delta: 1}}}}
	merged := Accumulate(input)
	merged["pc:A"].Changes[0].Delta = 100
	assert.Equal(t, 1, input[0].Changes[0].Delta)
}

func TestAccumulate_Empty(t *testing.T) {
	merged := Accumulate(nil)
	require.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestAccumulator_Order(t *testing.T) {
	acc := NewAccumulator()
	acc.Append(EntityNPC, "Zed")
	acc.Append(EntityPC, "Amy", StateChange{Type: ChangeHP, Delta: 1})
	acc.Append(EntityNPC, "Zed", StateChange{Type: ChangeTagAdd, Tag: "x"})

	deltas := acc.Deltas()
	require.Len(t, deltas, 2)
	assert.Equal(t, "Zed", deltas[0].Entity)
	assert.Len(t, deltas[0].Changes, 1)
	assert.Equal(t, "Amy", deltas[1].Entity)
}
