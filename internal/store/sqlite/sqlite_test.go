package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lonelog/internal/delta"
	"lonelog/internal/parser"
	"lonelog/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := New(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })
	require.NoError(t, c.EnsureSchema(ctx))
	return c
}

func logInput(campaign, file string, session int, text string) store.LogInput {
	entries := parser.Parse(text)
	return store.LogInput{
		Campaign:   campaign,
		SourceFile: file,
		SourceHash: "hash-" + file,
		Title:      file,
		Session:    session,
		EntryCount: len(entries),
		Deltas:     delta.Extract(entries),
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.EnsureSchema(context.Background()))
}

func TestSaveLog_ReplacesPreviousRows(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s1.md", 1, "=> [PC:Kira|HP-2]\n=> [Clock:Alarm 1/4]")))
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s1.md", 1, "=> [PC:Kira|HP-5]")))

	deltas, err := c.GetEntityDeltas(ctx, "iron", "", "Kira")
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, []delta.StateChange{{Type: delta.ChangeHP, Delta: -5}}, deltas[0].Changes)

	progress, err := c.ListProgress(ctx, "iron", "")
	require.NoError(t, err)
	assert.Empty(t, progress)

	logs, err := c.ListLogs(ctx, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].EntryCount)
	assert.NotEmpty(t, logs[0].LastIngested)
}

func TestGetEntityDeltas_SessionOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.SaveLog(ctx, logInput("iron", "b.md", 2, "=> [PC:Kira|wounded→dead]")))
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "a.md", 1, "=> [PC:kira|HP-2|wounded]")))
	require.NoError(t, c.SaveLog(ctx, logInput("other", "a.md", 1, "=> [PC:Kira|HP+9]")))

	deltas, err := c.GetEntityDeltas(ctx, "iron", string(delta.EntityPC), "KIRA")
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Equal(t, "kira", deltas[0].Entity)
	assert.Equal(t, -2, delta.TotalHPChange(deltas[0].Changes))
	assert.Equal(t, "Kira", deltas[1].Entity)

	all, err := c.GetEntityDeltas(ctx, "", "", "kira")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := c.GetEntityDeltas(ctx, "iron", string(delta.EntityNPC), "Kira")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestEntityStates(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s1.md", 1, "=> [PC:Kira|HP-3|+shaken]\n=> [N:Kira|hostile]")))
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s2.md", 2, "=> [PC:kira|HP+1|-shaken|Supply-1]")))

	summaries, err := store.EntityStates(ctx, c, "iron", "", "Kira")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	npc, pc := summaries[0], summaries[1]
	assert.Equal(t, delta.EntityNPC, npc.EntityType)
	require.NotNil(t, npc.Status)
	assert.Equal(t, "hostile", *npc.Status)

	assert.Equal(t, "Kira", pc.Entity)
	assert.Equal(t, -2, pc.NetHP)
	assert.Empty(t, pc.ActiveTags)
	assert.Equal(t, map[string]int{"Supply": -1}, pc.Stats)

	_, err = store.EntityStates(ctx, c, "iron", "", "Nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListEntities(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s1.md", 1, "=> [PC:Kira|HP-3|+shaken]\n=> [N:Bram|dead]")))
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s2.md", 2, "=> [PC:Kira|HP+1]")))

	entities, err := c.ListEntities(ctx, "iron", "")
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, store.EntitySummary{Name: "Bram", EntityType: delta.EntityNPC, Campaign: "iron", Logs: 1, Changes: 1}, entities[0])
	assert.Equal(t, store.EntitySummary{Name: "Kira", EntityType: delta.EntityPC, Campaign: "iron", Logs: 2, Changes: 3}, entities[1])

	pcs, err := c.ListEntities(ctx, "", string(delta.EntityPC))
	require.NoError(t, err)
	require.Len(t, pcs, 1)
	assert.Equal(t, "Kira", pcs[0].Name)
}

func TestListProgressAndThreads(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	text := "=> [Clock:Alarm 1/4] [Timer:Dawn 3]\n=> [Thread:Find the heir]\n=> [Clock:Alarm 2/4] [Thread:Find the heir|Closed]"
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "s1.md", 1, text)))

	progress, err := c.ListProgress(ctx, "iron", "")
	require.NoError(t, err)
	require.Len(t, progress, 3)
	assert.Equal(t, delta.ProgressClock, progress[0].Kind)
	require.NotNil(t, progress[0].Max)
	assert.Equal(t, 4, *progress[0].Max)
	assert.Equal(t, delta.ProgressTimer, progress[1].Kind)
	assert.Nil(t, progress[1].Max)
	assert.Equal(t, 2, progress[2].Current)

	alarm, err := c.ListProgress(ctx, "", "alarm")
	require.NoError(t, err)
	assert.Len(t, alarm, 2)

	threads, err := c.ListThreads(ctx, "iron")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "Open", threads[0].To)
	assert.Equal(t, "Closed", threads[1].To)
	assert.Nil(t, threads[1].From)
}

func TestGetLogHashesAndRemoveStale(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	require.NoError(t, c.SaveLog(ctx, logInput("iron", "a.md", 1, "=> [PC:Kira|HP-1]")))
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "b.md", 2, "=> [PC:Kira|HP-1]")))
	require.NoError(t, c.SaveLog(ctx, logInput("other", "a.md", 1, "=> [PC:Kira|HP-1]")))

	hashes, err := c.GetLogHashes(ctx, "iron")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.md": "hash-a.md", "b.md": "hash-b.md"}, hashes)

	removed, err := c.RemoveStaleLogs(ctx, "iron", []string{"a.md"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	deltas, err := c.GetEntityDeltas(ctx, "iron", "", "Kira")
	require.NoError(t, err)
	assert.Len(t, deltas, 1)

	removed, err = c.RemoveStaleLogs(ctx, "iron", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	logs, err := c.ListLogs(ctx, "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "other", logs[0].Campaign)
}

func TestRunSQL(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "a.md", 1, "=> [PC:Kira|HP-1]")))

	rows, err := c.RunSQL(ctx, "SELECT entity, changes FROM entity_deltas WHERE entity = ?", map[string]any{"1": "Kira"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kira", rows[0]["entity"])
	assert.JSONEq(t, `[{"type":"hp","delta":-1}]`, rows[0]["changes"].(string))

	_, err = c.RunSQL(ctx, "DELETE FROM logs", nil)
	assert.ErrorIs(t, err, store.ErrWriteQuery)
}

func TestRunSQL_RejectsWritesBehindCTE(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "a.md", 1, "=> [PC:Kira|HP-1]")))

	_, err := c.RunSQL(ctx, "WITH x AS (SELECT 1) DELETE FROM logs", nil)
	require.Error(t, err)

	logs, err := c.ListLogs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	// The pooled connection is writable again afterwards.
	require.NoError(t, c.SaveLog(ctx, logInput("iron", "b.md", 2, "=> [PC:Kira|HP-2]")))
	logs, err = c.ListLogs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}
